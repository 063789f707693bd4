package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	"bildstore/internal/core/domain"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// Quality is the canonical JPEG encoder setting. Changing it changes the
// bytes of every stored and derived image, so it is frozen.
const Quality = 85

// MaxDimension caps decodable input on either axis. Anything larger is
// rejected before a full decode is attempted.
const MaxDimension = 8192

// FlattenBackground is the opaque color PNG alpha is composited onto during
// normalization.
var FlattenBackground = color.White

// JPEGConverter normalizes uploads to JPEG and derives width-scaled
// renditions, entirely in pure Go so outputs are byte-identical across
// environments.
type JPEGConverter struct{}

func NewJPEGConverter() *JPEGConverter {
	return &JPEGConverter{}
}

func (c *JPEGConverter) Normalize(data []byte, from domain.MediaType) ([]byte, error) {
	if from == domain.MediaTypeJPEG {
		return data, nil
	}

	img, err := decodeBounded(data)
	if err != nil {
		return nil, err
	}

	flattened := flatten(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encoding canonical jpeg: %w", err)
	}

	log.Debug().
		Str("from", string(from)).
		Int("inBytes", len(data)).
		Int("outBytes", buf.Len()).
		Msg("normalized image")

	return buf.Bytes(), nil
}

func (c *JPEGConverter) Resize(data []byte, width int) ([]byte, error) {
	img, err := decodeBounded(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	height := scaledHeight(bounds.Dx(), bounds.Dy(), width)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encoding resized jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// scaledHeight maps the original aspect ratio onto the target width,
// rounding half up so repeated derivations agree on the same dimensions.
func scaledHeight(origWidth, origHeight, targetWidth int) int {
	height := (origHeight*targetWidth + origWidth/2) / origWidth
	if height < 1 {
		return 1
	}
	return height
}

func decodeBounded(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}

	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed limit", domain.ErrDecodeFailed, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}

	return img, nil
}

func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(FlattenBackground), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
