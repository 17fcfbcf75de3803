package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"lms/storage"
)

// Upload kinds accepted by the uploads endpoint, with their size limits.
var uploadLimits = map[string]int64{
	"courseImage":      4 << 20,
	"courseAttachment": 16 << 20,
	"chapterVideo":     512 << 20,
}

// ErrUnknownUploadKind is returned for a kind missing from uploadLimits.
type ErrUnknownUploadKind string

func (e ErrUnknownUploadKind) Error() string { return fmt.Sprintf("unknown upload kind %q", string(e)) }

// ErrUploadTooLarge is returned when a file exceeds its kind's limit.
type ErrUploadTooLarge struct {
	Kind  string
	Limit int64
}

func (e ErrUploadTooLarge) Error() string {
	return fmt.Sprintf("%s uploads are limited to %d MB", e.Kind, e.Limit>>20)
}

// IsUploadKind reports whether kind is accepted.
func IsUploadKind(kind string) bool {
	_, ok := uploadLimits[kind]
	return ok
}

// SaveUploadedFile stores file in store under kind and returns its URL.
func SaveUploadedFile(ctx context.Context, store storage.FileStore, kind string, file *multipart.FileHeader) (string, error) {
	limit, ok := uploadLimits[kind]
	if !ok {
		return "", ErrUnknownUploadKind(kind)
	}
	if file.Size > limit {
		return "", ErrUploadTooLarge{Kind: kind, Limit: limit}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Put(ctx, storage.NewKey(kind, file.Filename), src, file.Size, strings.TrimSpace(contentType))
}
