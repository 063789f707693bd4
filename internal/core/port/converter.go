package port

import "bildstore/internal/core/domain"

type ImageConverter interface {
	// Normalize re-encodes image data of a supported input type into the
	// canonical JPEG format. Data that is already canonical passes through
	// unchanged.
	Normalize(data []byte, from domain.MediaType) ([]byte, error)

	// Resize scales a canonical image proportionally so its width equals the
	// requested number of pixels and returns the re-encoded bytes. Output is
	// deterministic for a given (data, width) pair.
	Resize(data []byte, width int) ([]byte, error)
}
