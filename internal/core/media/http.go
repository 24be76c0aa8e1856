// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/respond"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// file itself.
const multipartOverhead = 1 << 20

// Handler serves image uploads.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
ServeHTTP handles POST /api/upload-image.

Response:
  - 200: {"success":true,"url":ref,"path":ref}
  - 400: missing file, wrong type or too large
  - 500: storage failure
*/
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadSize+multipartOverhead)

	upload, err := readUpload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ref, err := handler.service.Store(request.Context(), upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "image_uploaded",
		slog.String("ref", ref),
		slog.Int("bytes", len(upload.Data)),
	)

	respond.Fields(writer, map[string]any{"url": ref, "path": ref})
}

func readUpload(request *http.Request) (Upload, error) {
	if err := request.ParseMultipartForm(multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return Upload{}, errTooLarge()
		}
		return Upload{}, errNoFile()
	}
	defer request.MultipartForm.RemoveAll()

	file, header, err := request.FormFile(constants.UploadFormField)
	if err != nil {
		return Upload{}, errNoFile()
	}
	defer file.Close()

	upload := Upload{
		Filename:     header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Size:         header.Size,
	}
	if header.Size > constants.MaxUploadSize {
		return upload, nil
	}

	upload.Data, err = io.ReadAll(io.LimitReader(file, constants.MaxUploadSize+1))
	if err != nil {
		return Upload{}, errNoFile()
	}
	upload.Size = int64(len(upload.Data))
	return upload, nil
}
