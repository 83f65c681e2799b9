package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileNoteSource(t *testing.T) {
	dir := t.TempDir()
	note := "# 工作日誌 - 2026-01-02\n\nHello\n"
	if err := os.WriteFile(filepath.Join(dir, "2026-01-02.md"), []byte(note), 0644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	source := NewFileNoteSource(dir)
	ctx := context.Background()

	raw, err := source.Read(ctx, "2026-01-02")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if raw != note {
		t.Fatalf("raw=%q", raw)
	}

	_, err = source.Read(ctx, "2026-01-03")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("err=%v, want ErrNoteNotFound", err)
	}
}
