package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"bildstore/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "images"), filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	data := []byte("jpeg bytes here")

	name, err := s.Put(data, ".jpeg")
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:])+".jpeg", name)

	got, err := s.Get(name)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPutIdempotent(t *testing.T) {
	s := newTestStore(t)
	data := []byte("same content")

	first, err := s.Put(data, ".png")
	require.NoError(t, err)
	second, err := s.Put(data, ".png")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(s.root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "duplicate puts must not duplicate objects")
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	sum := sha256.Sum256([]byte("never stored"))
	_, err := s.Get(hex.EncodeToString(sum[:]) + ".jpeg")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetRejectsBadNames(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		fileName string
	}{
		{name: "traversal", fileName: "../../etc/passwd"},
		{name: "arbitrary name", fileName: "cat.jpeg"},
		{name: "wrong extension", fileName: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef.gif"},
		{name: "uppercase hex", fileName: "0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF.jpeg"},
		{name: "empty", fileName: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Get(tc.fileName)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = s.GetVariant(tc.fileName, 100)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestVariantRoundTrip(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Put([]byte("original"), ".jpeg")
	require.NoError(t, err)

	_, err = s.GetVariant(name, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound, "variant should not exist before put")

	variant := []byte("resized bytes")
	require.NoError(t, s.PutVariant(name, 100, variant))

	got, err := s.GetVariant(name, 100)
	require.NoError(t, err)
	assert.Equal(t, variant, got)

	// Different width is a different key.
	_, err = s.GetVariant(name, 200)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWriteLeavesNoStagingFiles(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Put([]byte("content"), ".jpeg")
	require.NoError(t, err)
	require.NoError(t, s.PutVariant(name, 50, []byte("variant")))

	for _, dir := range []string{s.root, filepath.Join(s.cacheRoot, "50")} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp")
		}
	}
}
