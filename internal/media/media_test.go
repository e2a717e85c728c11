package media

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
)

// Minimal valid file headers, enough for content sniffing.
var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestPrepareAcceptsImages(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		mime string
	}{
		{"hoodie.png", pngHeader, "image/png"},
		{"tee.jpg", jpegHeader, "image/jpeg"},
		{"drop.gif", gifHeader, "image/gif"},
	}
	for _, tc := range cases {
		upload, err := Prepare(tc.name, tc.data, 0)
		if err != nil {
			t.Fatalf("Prepare(%s): %v", tc.name, err)
		}
		if upload.MIME != tc.mime {
			t.Fatalf("Prepare(%s) detected %s, want %s", tc.name, upload.MIME, tc.mime)
		}
	}
}

func TestPrepareRejectsNonImage(t *testing.T) {
	_, err := Prepare("notes.txt", []byte("just some text, not an image"), 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareRejectsOversized(t *testing.T) {
	_, err := Prepare("big.png", pngHeader, 4)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareRejectsEmpty(t *testing.T) {
	if _, err := Prepare("empty.png", nil, 0); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestMaxBytes(t *testing.T) {
	if got := MaxBytes(10); got != 10*1024*1024 {
		t.Fatalf("got %d", got)
	}
	if got := MaxBytes(0); got != 0 {
		t.Fatalf("zero limit should disable the check, got %d", got)
	}
}

func TestWriteFile(t *testing.T) {
	upload, err := Prepare("hoodie.png", pngHeader, 0)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := WriteFile(w, "image", upload); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, `name="image"; filename="hoodie.png"`) {
		t.Fatalf("multipart body missing file part: %s", body)
	}
}
