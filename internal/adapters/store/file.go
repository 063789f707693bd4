package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"bildstore/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Stored names are the hex sha256 of the content plus an extension; anything
// else is treated as unknown so request paths can never escape the root.
var nameRegexp = regexp.MustCompile(`^[0-9a-f]{64}\.(jpeg|jpg|png)$`)

// FileStore is a content-addressed store on the local filesystem. Originals
// and canonical images live flat under root, derived variants under
// cacheRoot/<width>/. All writes are staged to a temp file and renamed into
// place so a reader never observes partial content.
type FileStore struct {
	root      string
	cacheRoot string
}

func NewFileStore(root, cacheRoot string) (*FileStore, error) {
	for _, dir := range []string{root, cacheRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	return &FileStore{root: root, cacheRoot: cacheRoot}, nil
}

func (s *FileStore) Put(data []byte, ext string) (string, error) {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + ext

	path := filepath.Join(s.root, name)
	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("name", name).Msg("content already stored")
		return name, nil
	}

	if err := writeAtomic(s.root, name, data); err != nil {
		return "", err
	}

	log.Debug().Str("name", name).Int("bytes", len(data)).Msg("stored object")

	return name, nil
}

func (s *FileStore) Get(name string) ([]byte, error) {
	if !nameRegexp.MatchString(name) {
		return nil, domain.ErrNotFound
	}

	buf, err := os.ReadFile(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", name, err)
	}

	return buf, nil
}

func (s *FileStore) GetVariant(name string, width int) ([]byte, error) {
	if !nameRegexp.MatchString(name) {
		return nil, domain.ErrNotFound
	}

	buf, err := os.ReadFile(filepath.Join(s.cacheRoot, strconv.Itoa(width), name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading variant %s/%d: %w", name, width, err)
	}

	return buf, nil
}

func (s *FileStore) PutVariant(name string, width int, data []byte) error {
	if !nameRegexp.MatchString(name) {
		return domain.ErrNotFound
	}

	dir := filepath.Join(s.cacheRoot, strconv.Itoa(width))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating variant directory: %w", err)
	}

	if err := writeAtomic(dir, name, data); err != nil {
		return err
	}

	log.Debug().Str("name", name).Int("width", width).Int("bytes", len(data)).Msg("stored variant")

	return nil
}

// writeAtomic stages data in a uniquely named temp file in the target
// directory, then renames it onto the final name. Rename within a directory
// is atomic, so concurrent writers of the same name race harmlessly.
func writeAtomic(dir, name string, data []byte) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("generating staging name: %w", err)
	}

	tmp := filepath.Join(dir, "."+id.String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("staging write: %w", err)
	}

	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", tmp).Msg("could not clean up staging file")
		}
		return fmt.Errorf("committing write: %w", err)
	}

	return nil
}
