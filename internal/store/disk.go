package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ErrStoreUnavailable is returned when the backing directory cannot be used.
var ErrStoreUnavailable = errors.New("local store unavailable")

// recordStore is file-per-record persistence under a base directory. Writes
// go to a temp file first and are renamed into place, so readers never see
// a torn record. Collection records are zstd-compressed.
type recordStore struct {
	baseDir string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newRecordStore(baseDir string) (*recordStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &recordStore{baseDir: baseDir, encoder: encoder, decoder: decoder}, nil
}

// readJSON loads a plain JSON record. A missing file means "empty", not an
// error, and reports found=false.
func (rs *recordStore) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(rs.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("corrupt record %s: %w", name, err)
	}
	return true, nil
}

func (rs *recordStore) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", name, err)
	}
	return rs.writeFile(name, data)
}

// readCompressed loads a zstd-compressed JSON record.
func (rs *recordStore) readCompressed(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(rs.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	raw, err := rs.decoder.DecodeAll(data, nil)
	if err != nil {
		return false, fmt.Errorf("corrupt record %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("corrupt record %s: %w", name, err)
	}
	return true, nil
}

func (rs *recordStore) writeCompressed(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", name, err)
	}
	return rs.writeFile(name, rs.encoder.EncodeAll(raw, nil))
}

func (rs *recordStore) remove(name string) error {
	err := os.Remove(filepath.Join(rs.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record %s: %w", name, err)
	}
	return nil
}

// writeFile writes to a temp file then renames it into place.
func (rs *recordStore) writeFile(name string, data []byte) error {
	path := filepath.Join(rs.baseDir, name)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write record %s: %w", name, closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	return nil
}

// bookStoreNamespace derives the collection record name for a user id. The
// id is an email address, so it is hashed into a filename-safe key; the
// hash also keeps one user's collection unreachable from another's key.
func bookStoreNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return "books-" + hex.EncodeToString(sum[:16]) + ".json.zst"
}
