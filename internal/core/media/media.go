// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media accepts product image uploads.

An upload is checked against the allowed image types twice: the type the
client declared and the type sniffed from the first bytes must both be JPEG,
PNG or WebP. Accepted files are renamed to "<unique id>-<sanitised name>" and
handed to a [Storage], which returns the public reference stored on products.
*/
package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/pkg/slug"
	"github.com/taibuivan/tastedees/pkg/uuid"
)

// Storage persists an accepted image and returns its public reference.
type Storage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

var extensionFor = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Client-facing messages.
const (
	msgNoFile      = "No file provided"
	msgInvalidType = "Invalid file type. Allowed: jpg, jpeg, png, webp"
	msgSaveFailed  = "Failed to save image. Please try again."
)

var msgTooLarge = fmt.Sprintf("File too large. Maximum size: %dMB", constants.MaxUploadSize>>20)

func errNoFile() error      { return apperr.ValidationError(msgNoFile) }
func errInvalidType() error { return apperr.ValidationError(msgInvalidType) }
func errTooLarge() error    { return apperr.ValidationError(msgTooLarge) }

// Upload is a received file before it is stored.
type Upload struct {
	Filename     string
	DeclaredType string
	Size         int64

	// Data is empty when Size alone already exceeds the limit.
	Data []byte
}

/*
Check validates the upload type and size.

The declared type is checked before the size, so an oversized GIF reports the
type problem.
*/
func (u Upload) Check() error {
	declared := normaliseType(u.DeclaredType)
	if !slices.Contains(allowedTypes, declared) {
		return errInvalidType()
	}
	if u.Size > constants.MaxUploadSize {
		return errTooLarge()
	}
	if !slices.Contains(allowedTypes, normaliseType(http.DetectContentType(u.Data))) {
		return errInvalidType()
	}
	return nil
}

// StoredName returns the unique, sanitised name the file is saved under.
func (u Upload) StoredName() string {
	name := slug.Filename(path.Base(strings.ReplaceAll(u.Filename, "\\", "/")))
	if name == "" || name == "." || name == ".." {
		name = "image" + extensionFor[normaliseType(u.DeclaredType)]
	}
	return uuid.Compact() + "-" + name
}

func normaliseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// # Service

// Service validates uploads and stores them.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

/*
Store checks and saves the upload.

Returns:
  - string: public reference, a site-local path or an https URL
  - error: VALIDATION_ERROR or StorageFailure
*/
func (service *Service) Store(ctx context.Context, u Upload) (string, error) {
	if err := u.Check(); err != nil {
		return "", err
	}

	ref, err := service.storage.Save(ctx, u.StoredName(), normaliseType(u.DeclaredType), u.Data)
	if err != nil {
		return "", apperr.StorageFailure(msgSaveFailed, err)
	}
	return ref, nil
}
