package service

import (
	"context"
	"errors"
)

// ErrMediaNotFound is returned by Read when no object exists under the key.
var ErrMediaNotFound = errors.New("media not found")

// MediaUpload is an uploaded file as received from the client.
type MediaUpload struct {
	Filename string
	Data     []byte
}

// MediaObject is a stored file read back for serving.
type MediaObject struct {
	ContentType string
	Data        []byte
}

// MediaStorage hosts product images and hands out public URLs for them.
type MediaStorage interface {
	// Upload validates and stores the file, returning its public URL.
	Upload(ctx context.Context, upload *MediaUpload) (string, error)

	// Read returns the object stored under key, the path of its public URL below the base URL.
	Read(ctx context.Context, key string) (*MediaObject, error)

	// Delete removes the object behind a URL previously returned by Upload. Missing objects are not an error.
	Delete(ctx context.Context, url string) error

	// Owns reports whether url was issued by this storage.
	Owns(url string) bool
}
