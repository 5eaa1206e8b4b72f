package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := toNRGBA(createPatternImage(24, 12))

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 12 {
		t.Errorf("dimensions: got %v, want 24x12", img.Bounds())
	}
}

func TestEncodeBase64(t *testing.T) {
	enc, err := EncodeBase64(createGray(7, 3, 128))
	if err != nil {
		t.Fatalf("EncodeBase64 failed: %v", err)
	}

	if enc.Width != 7 || enc.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 7x3", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %q", enc.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(enc.ImageBase64); err != nil {
		t.Errorf("ImageBase64 is not valid base64: %v", err)
	}
	if !strings.HasPrefix(enc.DataURI(), "data:image/png;base64,") {
		t.Errorf("DataURI: got prefix %q", enc.DataURI()[:30])
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")

	if err := SavePNG(createInMemoryImage(5, 5, color.Black), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if Sniff(data) != "png" {
		t.Errorf("saved file is not a PNG")
	}
}
