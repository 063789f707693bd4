package domain

import (
	"bytes"
	"net/http"
)

const sniffLen = 512

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// DetectMediaType infers the media type from raw bytes alone. The type a
// client declares in Content-Type never influences the result; uploads are
// classified by what they actually contain.
func DetectMediaType(data []byte) MediaType {
	if len(data) == 0 {
		return MediaTypeUnknown
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	switch {
	case isJPEG(head):
		return MediaTypeJPEG
	case isPNG(head):
		return MediaTypePNG
	case isGIF(head):
		return MediaTypeGIF
	case isWEBP(head):
		return MediaTypeWEBP
	}

	switch http.DetectContentType(head) {
	case "image/jpeg":
		return MediaTypeJPEG
	case "image/png":
		return MediaTypePNG
	case "image/gif":
		return MediaTypeGIF
	case "image/webp":
		return MediaTypeWEBP
	}

	return MediaTypeUnknown
}

func isJPEG(head []byte) bool {
	return len(head) > 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff
}

func isPNG(head []byte) bool {
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP"))
}
