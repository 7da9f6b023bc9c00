package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write jpeg: %v", err)
	}
}

func TestPDFConverterConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.JPG")
	writeJPEG(t, src, 96, 48)

	out, err := NewPDFConverter(nil).Convert(context.Background(), src)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("/DCTDecode")) {
		t.Error("expected the JPEG stream to be embedded with DCTDecode")
	}
}

func TestPDFConverterRejectsCorruptJPEG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(src, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewPDFConverter(nil).Convert(context.Background(), src)
	if !errors.Is(err, common.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
}

func TestPDFConverterMissingFile(t *testing.T) {
	_, err := NewPDFConverter(nil).Convert(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"))
	if !errors.Is(err, common.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the read error to be preserved, got %v", err)
	}
}

func TestPDFConverterRejectsOtherExtensions(t *testing.T) {
	_, err := NewPDFConverter(nil).Convert(context.Background(), "scan.png")
	if !errors.Is(err, common.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
}

func TestJFIFDPI(t *testing.T) {
	header := func(units byte, x uint16) []byte {
		return []byte{
			0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10,
			'J', 'F', 'I', 'F', 0x00,
			0x01, 0x01,
			units, byte(x >> 8), byte(x), byte(x >> 8), byte(x),
			0x00, 0x00,
		}
	}
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{"dpi", header(1, 300), 300},
		{"dpcm", header(2, 100), 254},
		{"aspect only", header(0, 1), DefaultDPI},
		{"zero density", header(1, 0), DefaultDPI},
		{"no app0", []byte{0xFF, 0xD8, 0xFF, 0xDB}, DefaultDPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jfifDPI(tt.data); got != tt.want {
				t.Errorf("jfifDPI = %v, want %v", got, tt.want)
			}
		})
	}
}
