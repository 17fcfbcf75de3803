package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/database"
	"lms/models"
	"lms/services"
	"lms/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestIdentityClientLookupEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"user_1","primary_email_address_id":"e2","email_addresses":[{"id":"e1","email_address":"old@example.com"},{"id":"e2","email_address":"teacher@example.com"}]}`)
		case "/users/user_2":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"user_2","email_addresses":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, "secret")
	client.client.SetRetryCount(0)

	email, err := client.LookupEmail(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "teacher@example.com", email)

	_, err = client.LookupEmail(context.Background(), "user_2")
	assert.ErrorIs(t, err, ErrIdentityNoEmail)

	_, err = client.LookupEmail(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSendgridMailerSend(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	mailer := NewSendgridMailer("sg-key", "LMS", "noreply@example.com")
	mailer.host = srv.URL

	require.NoError(t, mailer.Send(context.Background(), "teacher@example.com", "Chapter completed", "Student done"))
	personalizations := body["personalizations"].([]interface{})
	first := personalizations[0].(map[string]interface{})
	assert.Equal(t, "[LMS] Chapter completed", first["subject"])
}

func TestSendgridMailerRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	mailer := NewSendgridMailer("bad", "LMS", "noreply@example.com")
	mailer.host = srv.URL
	assert.Error(t, mailer.Send(context.Background(), "a@example.com", "s", "b"))
}

func TestRetryPendingNotifications(t *testing.T) {
	db := database.OpenTestDb(t)
	payload, _ := json.Marshal(map[string]interface{}{
		"userId":    "owner",
		"title":     "Chapter completed",
		"message":   "done",
		"type":      models.NotificationChapterCompletion,
		"courseId":  1,
		"chapterId": 2,
	})
	box := models.NotificationOutbox{Payload: datatypes.JSON(payload), Status: models.OutboxPending}
	require.NoError(t, db.Create(&box).Error)

	RetryPendingNotifications(db, &services.Emitter{})

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", "owner").First(&n).Error)
	assert.Equal(t, models.NotificationChapterCompletion, n.Type)

	require.NoError(t, db.First(&box, box.ID).Error)
	assert.Equal(t, models.OutboxDone, box.Status)
}

type memStore struct{ keys []string }

func (m *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	m.keys = append(m.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error { return nil }

var _ storage.FileStore = (*memStore)(nil)

func multipartFile(t *testing.T, name, content string) *multipart.FileHeader {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, _ = io.WriteString(part, content)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestSaveUploadedFile(t *testing.T) {
	store := &memStore{}
	url, err := SaveUploadedFile(context.Background(), store, "courseAttachment", multipartFile(t, "notes.pdf", "pdf"))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "courseAttachment/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	_, err = SaveUploadedFile(context.Background(), store, "avatar", multipartFile(t, "a.png", "png"))
	assert.Equal(t, ErrUnknownUploadKind("avatar"), err)
}

func TestUploadKinds(t *testing.T) {
	assert.True(t, IsUploadKind("courseImage"))
	assert.False(t, IsUploadKind("avatar"))
	assert.True(t, strings.Contains(ErrUploadTooLarge{Kind: "courseImage", Limit: 4 << 20}.Error(), "4 MB"))
}
