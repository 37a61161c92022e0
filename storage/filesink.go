package storage

import (
	"context"
	"os"
	"path/filepath"
)

// FileAuditSink is an AuditSink writing one file per object under a base
// directory. Suitable for single-host deployments and local development;
// object-store backed sinks implement the same interface.
type FileAuditSink struct {
	baseDir string
}

var _ AuditSink = (*FileAuditSink)(nil)

// NewFileAuditSink creates a sink rooted at baseDir, creating it if needed.
func NewFileAuditSink(baseDir string) (*FileAuditSink, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &FileAuditSink{baseDir: baseDir}, nil
}

// WriteObject stores body at baseDir/path, creating parent directories.
func (s *FileAuditSink) WriteObject(ctx context.Context, path string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, body, 0o644)
}
