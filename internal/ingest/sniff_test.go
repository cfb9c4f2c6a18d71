package ingest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "real png",
			data: nil, // filled in below
			want: FormatPNG,
		},
		{
			name: "png magic only",
			data: append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...),
			want: FormatPNG,
		},
		{
			name: "jpeg magic",
			data: append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...),
			want: FormatJPEG,
		},
		{
			name: "gif magic",
			data: append([]byte("GIF89a"), make([]byte, 64)...),
			want: FormatGIF,
		},
		{
			name: "webp magic",
			data: append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 64)...),
			want: FormatWebP,
		},
		{
			name: "garbage",
			data: []byte("definitely not an image, just text"),
			want: FormatUnknown,
		},
		{
			name: "empty",
			data: nil,
			want: FormatUnknown,
		},
	}
	tests[0].data = tinyPNG(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatExt(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJPEG, ".jpg"},
		{FormatPNG, ".png"},
		{FormatGIF, ".gif"},
		{FormatWebP, ".webp"},
		{FormatUnknown, ".bin"},
	}
	for _, tt := range tests {
		if got := tt.format.Ext(); got != tt.want {
			t.Errorf("%v.Ext() = %q, want %q", tt.format, got, tt.want)
		}
	}
}
