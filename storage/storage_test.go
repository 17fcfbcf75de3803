package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyKeepsExtension(t *testing.T) {
	key := NewKey("courseImage", "Cover.PNG")
	assert.True(t, strings.HasPrefix(key, "courseImage/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewKey("courseImage", "Cover.PNG"))
}

func TestLocalStorePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := &LocalStore{Dir: dir, BaseURL: "http://localhost:3000/uploads/"}

	url, err := store.Put(context.Background(), "courseImage/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/courseImage/a.txt", url)

	raw, err := os.ReadFile(filepath.Join(dir, "courseImage", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	require.NoError(t, store.Delete(context.Background(), "courseImage/a.txt"))
	_, err = os.Stat(filepath.Join(dir, "courseImage", "a.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), "courseImage/missing.txt"))
}
