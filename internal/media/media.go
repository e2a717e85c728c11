// Package media prepares image uploads for the catalog endpoints: content
// sniffing, type and size enforcement, and the multipart field set the
// remote service expects.
package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Upload is a validated image ready to be attached to a multipart request.
type Upload struct {
	Name string
	MIME string
	Data []byte
}

// Prepare sniffs the content, rejects non-image payloads and anything over
// maxBytes, and returns an Upload carrying the detected MIME type. The
// declared filename is kept for the multipart part header only; the sniffed
// type is authoritative.
func Prepare(name string, data []byte, maxBytes int64) (Upload, error) {
	if len(data) == 0 {
		return Upload{}, pkgerrors.New(pkgerrors.CodeValidation, "image content is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Upload{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %d byte upload limit", maxBytes))
	}

	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return Upload{Name: name, MIME: detected.String(), Data: data}, nil
		}
	}
	return Upload{}, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("unsupported image type %s", detected.String()))
}

// MaxBytes converts a configured megabyte limit to bytes.
func MaxBytes(maxUploadMB int) int64 {
	if maxUploadMB <= 0 {
		return 0
	}
	return int64(maxUploadMB) * 1024 * 1024
}

// WriteFile adds the upload to a multipart writer under the given field name.
func WriteFile(w *multipart.Writer, field string, upload Upload) error {
	part, err := w.CreateFormFile(field, upload.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create multipart file part")
	}
	if _, err := io.Copy(part, bytes.NewReader(upload.Data)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write multipart file part")
	}
	return nil
}
