// Package imaging prepares uploaded listing photos for storage.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// ListingDimension bounds the longer side of a stored listing photo.
	ListingDimension = 1600
	// ThumbnailDimension bounds the longer side of a grid thumbnail.
	ThumbnailDimension = 400
	// JPEGQuality is the compression quality for JPEG output.
	JPEGQuality = 85
	// MaxUploadBytes caps the size of an accepted upload.
	MaxUploadBytes = 20 << 20
)

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is an upload re-encoded as a listing image and a thumbnail.
type Photo struct {
	Listing   []byte
	Thumbnail []byte
	MIME      string
}

// Process sniffs the upload, downscales it to listing and thumbnail
// sizes and re-encodes both as JPEG. Client headers are not trusted.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxUploadBytes)
	}

	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	listing, err := encode(downscale(img, ListingDimension))
	if err != nil {
		return nil, err
	}
	thumb, err := encode(downscale(img, ThumbnailDimension))
	if err != nil {
		return nil, err
	}

	return &Photo{Listing: listing, Thumbnail: thumb, MIME: "image/jpeg"}, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale fits img within maxDim on both sides, keeping the aspect
// ratio. Images already within bounds are returned as is.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
