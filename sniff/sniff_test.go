package sniff

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestByName(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "magic", wantName: "magic"},
		{name: "", wantName: "magic"},
		{name: "MimeType", wantName: "mimetype"},
		{name: " file ", wantName: "file"},
		{name: "libmagic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName() error = %v", err)
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.wantName)
			}
		})
	}
}

func TestMimetype_Detect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{name: "png", data: pngBytes(t, 8, 8), expected: "image/png"},
		{name: "pdf", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), expected: "application/pdf"},
		{name: "text drops charset", data: []byte("hello world\n"), expected: "text/plain"},
		{name: "text starting with BM", data: []byte("BMW service notes\n"), expected: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "upload", tt.data)
			got, err := NewMimetype().Detect(context.Background(), path)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Detect() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReadHeader_Bounded(t *testing.T) {
	path := writeTemp(t, "big", bytes.Repeat([]byte{'a'}, 10000))

	header, err := readHeader(context.Background(), path, 100)
	if err != nil {
		t.Fatalf("readHeader() error = %v", err)
	}
	if len(header) != 100 {
		t.Errorf("len(header) = %d, want 100", len(header))
	}
}

func TestReadHeader_Cancelled(t *testing.T) {
	path := writeTemp(t, "small", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := readHeader(ctx, path, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("readHeader() error = %v, want context.Canceled", err)
	}
}

func TestFileCommand_MissingBinary(t *testing.T) {
	path := writeTemp(t, "upload", pngBytes(t, 2, 2))
	d := &FileCommand{Binary: "definitely-not-a-file-binary"}

	_, err := d.Detect(context.Background(), path)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Detect() error = %v, want ErrUnavailable", err)
	}
}

func TestFileCommand_Detect(t *testing.T) {
	if _, err := exec.LookPath("file"); err != nil {
		t.Skip("file(1) not installed")
	}
	path := writeTemp(t, "upload.txt", pngBytes(t, 2, 2))

	got, err := NewFileCommand().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != "image/png" {
		t.Errorf("Detect() = %q, want image/png", got)
	}
}

func TestUnavailable(t *testing.T) {
	d := Unavailable("fileinfo", "disabled by operator")
	if d.Name() != "fileinfo" {
		t.Errorf("Name() = %q", d.Name())
	}

	_, err := d.Detect(context.Background(), "/whatever")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Detect() error = %v, want ErrUnavailable", err)
	}
}
