package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore keeps records in a single JSON document keyed by training size
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by path. The file is created on the first append.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the document; a missing file is an empty collection
func (s *JSONStore) Load(ctx context.Context) (Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Collection{}, nil
		}
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}

	c := Collection{}
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}
	return c, nil
}

// Append reads the document, adds r and writes it back
func (s *JSONStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	c.Add(r)

	return s.write(c)
}

func (s *JSONStore) write(c Collection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Close is a no-op; every append is flushed
func (s *JSONStore) Close() error {
	return nil
}

var _ Store = (*JSONStore)(nil)
