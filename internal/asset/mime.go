package asset

import (
	"path/filepath"
	"strings"
)

// Unknown is returned by GuessMimeType when neither the data URL nor the
// extension identifies a supported type.
const Unknown = "unknown"

var dataURLTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
	"image/x-tga",
	"video/mp4",
}

var extTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".tga":  "image/x-tga",
	".mp4":  "video/mp4",
}

// GuessMimeType identifies a file by its data URL header ("data:image/png;base64,...")
// or, failing that, by its extension.
func GuessMimeType(nameOrDataURL string) string {
	if rest, ok := strings.CutPrefix(nameOrDataURL, "data:"); ok {
		mt, _, _ := strings.Cut(rest, ";")
		mt, _, _ = strings.Cut(mt, ",")
		mt = strings.ToLower(mt)
		for _, t := range dataURLTypes {
			if mt == t {
				return t
			}
		}
	}
	if t, ok := extTypes[strings.ToLower(filepath.Ext(nameOrDataURL))]; ok {
		return t
	}
	return Unknown
}

// IsImage reports whether mt is a still-image type the loader can decode.
func IsImage(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}
