package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnsupported is returned for files that are not decodable still images.
var ErrUnsupported = errors.New("asset: unsupported type")

// Decoders are picked by type rather than by sniffing, because TGA files
// carry no magic number.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"image/png":   png.Decode,
	"image/jpeg":  jpeg.Decode,
	"image/gif":   gif.Decode, // first frame only
	"image/webp":  webp.Decode,
	"image/bmp":   bmp.Decode,
	"image/tiff":  tiff.Decode,
	"image/x-tga": tga.Decode,
}

// Decode reads one image of MIME type mt.
func Decode(r io.Reader, mt string) (*image.NRGBA, error) {
	dec, ok := decoders[mt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mt)
	}
	img, err := dec(r)
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", mt, err)
	}
	return toNRGBA(img), nil
}

// Load reads and decodes the image at path.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(raw), GuessMimeType(path))
	if err != nil {
		return nil, fmt.Errorf("asset: %s: %w", path, err)
	}
	return img, nil
}

// LoadDataURL decodes a base64 data URL as produced by FileReader.readAsDataURL.
func LoadDataURL(dataURL string) (*image.NRGBA, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, fmt.Errorf("asset: malformed data URL")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("asset: data URL is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("asset: data URL payload: %w", err)
	}
	return Decode(bytes.NewReader(raw), GuessMimeType(header))
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha: draw and force opaque
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}
