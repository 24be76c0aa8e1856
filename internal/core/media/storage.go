// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/taibuivan/tastedees/internal/platform/filestore"
)

// # Local Disk

// LocalStorage writes images under a directory served as static files.
type LocalStorage struct {
	dir    string
	prefix string
}

// NewLocalStorage stores files in dir and reports them under the URL prefix.
func NewLocalStorage(dir, prefix string) *LocalStorage {
	return &LocalStorage{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}
}

func (s *LocalStorage) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := filestore.WriteAtomic(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("media: write %s: %w", name, err)
	}
	return s.prefix + "/" + name, nil
}

// # Cloudinary

// CloudinaryStorage uploads images to a Cloudinary folder.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage connects with a cloudinary:// URL.
func NewCloudinaryStorage(cloudinaryURL, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("media: cloudinary init: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: folder}, nil
}

// Save uploads data and returns the https delivery URL.
func (s *CloudinaryStorage) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	params := uploader.UploadParams{
		PublicID: strings.TrimSuffix(name, filepath.Ext(name)),
		Folder:   s.folder,
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("media: cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("media: cloudinary upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
