package eventlog

import (
	"fmt"
	"os"
	"time"
)

const (
	sessionStarted = "=== New session started ==="
	sessionEnded   = "=== Session ended ==="
)

// FileStore appends one "[timestamp] text" line per entry to a text file.
type FileStore struct {
	f *os.File
}

func OpenFile(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "\n%s\n", sessionStarted); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write history header: %w", err)
	}
	return &FileStore{f: f}, nil
}

func (s *FileStore) Append(e Entry) error {
	_, err := fmt.Fprintf(s.f, "[%s] %s\n", e.At.Format(time.RFC3339), e.Text)
	return err
}

func (s *FileStore) Close() error {
	_, werr := fmt.Fprintf(s.f, "%s\n", sessionEnded)
	if err := s.f.Close(); err != nil {
		return err
	}
	return werr
}
