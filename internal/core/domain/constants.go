package domain

import "errors"

var (
	ErrMimeTypeMismatch = errors.New("mime type of file contents does not match a supported image format")
	ErrDecodeFailed     = errors.New("image data could not be decoded")
	ErrNotFound         = errors.New("file not found")
)
