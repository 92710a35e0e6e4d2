package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCappedFileWriterTruncatesAtLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	w, err := newCappedFileWriter(path, 1)
	if err != nil {
		t.Fatalf("newCappedFileWriter: %v", err)
	}
	defer w.Close()

	// maxBytes is 1 MiB; two writes of ~0.6 MiB must trigger one truncation.
	chunk := []byte(strings.Repeat("x", 600*1024))
	if _, err := w.Write(chunk); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := w.Write(chunk); err != nil {
		t.Fatalf("second write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(len(chunk)) {
		t.Fatalf("size = %d, want %d after truncation", info.Size(), len(chunk))
	}
}

func TestCappedFileWriterAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	w, err := newCappedFileWriter(path, 1)
	if err != nil {
		t.Fatalf("newCappedFileWriter: %v", err)
	}
	if _, err := w.Write([]byte("one\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w, err = newCappedFileWriter(path, 1)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := w.Write([]byte("two\n")); err != nil {
		t.Fatalf("write after reopen: %v", err)
	}
	w.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "one\ntwo\n" {
		t.Fatalf("content = %q", string(b))
	}
}
