package domain

type MediaType string

const (
	MediaTypeJPEG    MediaType = "image/jpeg"
	MediaTypePNG     MediaType = "image/png"
	MediaTypeGIF     MediaType = "image/gif"
	MediaTypeWEBP    MediaType = "image/webp"
	MediaTypeUnknown MediaType = ""
)

// CanonicalExt is the extension of the canonical storage format. Every
// public URL returned from an upload ends in this extension.
const CanonicalExt = ".jpeg"

// SessionCookieName is the request cookie carrying the session token the
// auth gateway issues.
const SessionCookieName = "session"

// String names the type in user-facing messages; unrecognized content reads
// as "unknown" rather than an empty string.
func (m MediaType) String() string {
	if m == MediaTypeUnknown {
		return "unknown"
	}
	return string(m)
}

// Supported reports whether the type is accepted for ingestion.
func (m MediaType) Supported() bool {
	return m == MediaTypeJPEG || m == MediaTypePNG
}

// Ext returns the file extension used when storing original bytes of this type.
func (m MediaType) Ext() string {
	switch m {
	case MediaTypeJPEG:
		return ".jpeg"
	case MediaTypePNG:
		return ".png"
	default:
		return ""
	}
}

// ImageAsset is one stored upload. URL always points at the canonical JPEG;
// OriginalURL points at the bytes as uploaded. For JPEG uploads the two are
// the same file. Assets are immutable once stored.
type ImageAsset struct {
	ID          string
	URL         string
	OriginalURL string
}
