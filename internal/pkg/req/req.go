/*
Package req provides helpers for HTTP request parsing and data binding.

It wraps JSON body decoding with content-type and strictness checks so
handlers only deal with already-validated input structs.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"karmashare/internal/pkg/errs"
)

// MaxBodySize caps request bodies at 64 KB. Share-link requests are tiny;
// anything larger is not a legitimate client.
const MaxBodySize int64 = 64 << 10

// BindJSON decodes the request body into dst. Unknown fields and trailing
// content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
