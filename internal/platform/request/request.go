// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides chi's parameter extraction and the common body decoding pattern so
handlers report malformed input the same way.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/internal/platform/validate"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body into target.

Returns:
  - error: validate.ErrInvalidJSON if the body is missing or malformed
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.ValidationError("Request body is required")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Principal returns the identity verified for this request.

Returns:
  - error: apperr.Unauthenticated if no valid session accompanied the request
*/
func Principal(request *http.Request) (sec.Principal, error) {
	p, ok := ctxutil.GetPrincipal(request.Context())
	if !ok {
		return sec.Principal{}, apperr.Unauthenticated("Not authenticated")
	}
	return p, nil
}
