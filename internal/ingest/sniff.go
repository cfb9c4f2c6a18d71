package ingest

import (
	"bytes"
	"image"

	"github.com/gabriel-vasile/mimetype"

	// Register decoders for the fallback probe
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Format is the detected image format of a fetched attachment.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatGIF
	FormatWebP
)

// Ext maps a format to its storage extension. Unknown payloads are kept with
// a .bin extension rather than dropped.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatGIF:
		return ".gif"
	case FormatWebP:
		return ".webp"
	default:
		return ".bin"
	}
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// DetectFormat determines the true image format of data, ignoring whatever
// the URL claimed. Three stages:
//  1. magic-byte sniff (mimetype)
//  2. full decode probe via the registered image decoders
//  3. unknown
func DetectFormat(data []byte) Format {
	switch mimetype.Detect(data).String() {
	case "image/jpeg":
		return FormatJPEG
	case "image/png":
		return FormatPNG
	case "image/gif":
		return FormatGIF
	case "image/webp":
		return FormatWebP
	}

	// Header sniff was inconclusive; ask the decoders.
	if _, name, err := image.Decode(bytes.NewReader(data)); err == nil {
		switch name {
		case "jpeg":
			return FormatJPEG
		case "png":
			return FormatPNG
		case "gif":
			return FormatGIF
		case "webp":
			return FormatWebP
		}
	}

	return FormatUnknown
}
