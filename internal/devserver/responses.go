package devserver

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
)

// writeJSON renders a success payload. A nil payload with StatusNoContent
// writes only the status line.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders errors the way the production API does: a single
// "detail" string with the status derived from the error code.
func writeError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeInternal
	detail := "internal server error"
	if e := pkgerrors.As(err); e != nil {
		code = e.Code()
		detail = e.Message()
	}
	meta := pkgerrors.MetadataFor(code)
	if meta.HTTPStatus >= http.StatusInternalServerError {
		detail = "internal server error"
	}
	writeJSON(w, meta.HTTPStatus, map[string]string{"detail": detail})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid JSON body")
	}
	return nil
}
