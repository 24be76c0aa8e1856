// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/core/media"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	webpMagic = []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	gifMagic  = []byte("GIF89a")
)

func imageOf(magic []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, magic)
	return data
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

func upload(t *testing.T, handler http.Handler, body *bytes.Buffer, contentType string) (int, uploadResponse) {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, "/api/upload-image", body)
	request.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

/*
TestHandler_Upload covers the accepted types and every rejection message.
*/
func TestHandler_Upload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantStatus  int
		wantError   string
	}{
		{"jpeg", "Summer Tee.JPG", "image/jpeg", imageOf(jpegMagic, 2048), http.StatusOK, ""},
		{"png", "tee.png", "image/png", imageOf(pngMagic, 2048), http.StatusOK, ""},
		{"webp", "tee.webp", "image/webp", imageOf(webpMagic, 2048), http.StatusOK, ""},
		{"gif", "tee.gif", "image/gif", imageOf(gifMagic, 2048), http.StatusBadRequest, "Invalid file type. Allowed: jpg, jpeg, png, webp"},
		{"spoofed type", "tee.jpg", "image/jpeg", imageOf(gifMagic, 2048), http.StatusBadRequest, "Invalid file type. Allowed: jpg, jpeg, png, webp"},
		{"six megabyte jpeg", "big.jpg", "image/jpeg", imageOf(jpegMagic, 6<<20), http.StatusBadRequest, "File too large. Maximum size: 5MB"},
		{"just over limit", "big.jpg", "image/jpeg", imageOf(jpegMagic, 5<<20+1), http.StatusBadRequest, "File too large. Maximum size: 5MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			handler := media.NewHandler(media.NewService(media.NewLocalStorage(dir, "/images/products")))

			body, contentType := multipartBody(t, "file", tt.filename, tt.contentType, tt.data)
			status, resp := upload(t, handler, body, contentType)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantError != "" {
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantError, resp.Error)
				return
			}

			assert.True(t, resp.Success)
			assert.Equal(t, resp.URL, resp.Path)
			assert.True(t, strings.HasPrefix(resp.URL, "/images/products/"), resp.URL)

			stored := filepath.Join(dir, strings.TrimPrefix(resp.URL, "/images/products/"))
			data, err := os.ReadFile(stored)
			require.NoError(t, err)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestHandler_NoFile(t *testing.T) {
	handler := media.NewHandler(media.NewService(media.NewLocalStorage(t.TempDir(), "/images/products")))

	body, contentType := multipartBody(t, "other", "tee.png", "image/png", imageOf(pngMagic, 64))
	status, resp := upload(t, handler, body, contentType)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file provided", resp.Error)

	status, resp = upload(t, handler, bytes.NewBufferString("plain"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file provided", resp.Error)
}

type failingStorage struct{}

func (failingStorage) Save(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func TestHandler_StorageFailure(t *testing.T) {
	handler := media.NewHandler(media.NewService(failingStorage{}))

	body, contentType := multipartBody(t, "file", "tee.png", "image/png", imageOf(pngMagic, 64))
	status, resp := upload(t, handler, body, contentType)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to save image. Please try again.", resp.Error)
}

func TestUpload_StoredName(t *testing.T) {
	tests := []struct {
		filename string
		suffix   string
	}{
		{"My Summer  Tee!!.PNG", "-my-summer-tee.png"},
		{"--Été Collection.jpg--", "-ete-collection.jpg"},
		{"../../etc/passwd.png", "-passwd.png"},
		{"C:\\Users\\me\\shot.webp", "-shot.webp"},
		{"???", "-image.png"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name := media.Upload{Filename: tt.filename, DeclaredType: "image/png"}.StoredName()
			assert.True(t, strings.HasSuffix(name, tt.suffix), name)
			assert.NotContains(t, name, "/")
		})
	}
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	storage := media.NewLocalStorage(filepath.Join(dir, "nested"), "images/products/")

	ref, err := storage.Save(context.Background(), "a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/images/products/a.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
