package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRealTTYDetector_NonTerminals(t *testing.T) {
	var d RealTTYDetector

	var buf bytes.Buffer
	if d.IsTTY(&buf) {
		t.Error("a buffer is not a terminal")
	}
	if _, _, err := d.GetSize(&buf); !errors.Is(err, os.ErrInvalid) {
		t.Errorf("GetSize(buffer) error = %v, want os.ErrInvalid", err)
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer func() { _ = f.Close() }()
	if d.IsTTY(f) {
		t.Error("a regular file is not a terminal")
	}
}
