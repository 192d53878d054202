// Package asset turns uploaded images into board assets: a PNG data URL and
// the natural size used to place the image element.
package asset

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/inamate/drawboard/internal/document"
)

// MaxDimension is the longest side kept for an uploaded image; larger images
// are scaled down.
const MaxDimension = 2048

var ErrUnsupported = fmt.Errorf("%w: unsupported image type", document.ErrUserInput)

var supported = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Image is a prepared asset.
type Image struct {
	ID      string `json:"id"`
	DataURL string `json:"dataUrl"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Name    string `json:"name,omitempty"`
}

// Prepare decodes r, scales it to fit MaxDimension and re-encodes it as PNG.
// It returns the PNG bytes alongside the asset.
func Prepare(r io.Reader, id, name string) (*Image, []byte, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)
	if ct := http.DetectContentType(head); !supported[ct] {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode image: %w", document.ErrUserInput, err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, fmt.Errorf("encode png: %w", err)
	}
	b := img.Bounds()
	return &Image{
		ID:      id,
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Name:    name,
	}, buf.Bytes(), nil
}

// fit scales img down so that neither side exceeds limit.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
