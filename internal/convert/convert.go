// Package convert turns a single JPEG into a one-page PDF.
package convert

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/joseph-ayodele/scan2pdf/constants"
	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

// DefaultDPI is assumed when the JPEG carries no usable JFIF density.
const DefaultDPI = 96

// Converter is the conversion backend: image path in, PDF bytes out.
type Converter interface {
	Convert(ctx context.Context, imagePath string) ([]byte, error)
}

// PDFConverter embeds the JPEG stream unchanged as the only page of a new PDF,
// sized to the image at its recorded resolution.
type PDFConverter struct {
	logger *slog.Logger
}

func NewPDFConverter(logger *slog.Logger) *PDFConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFConverter{logger: logger}
}

func (c *PDFConverter) Convert(ctx context.Context, imagePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !constants.IsImageName(imagePath) {
		return nil, common.ConversionFailed(imagePath, fmt.Errorf("unsupported extension: %q", filepath.Ext(imagePath)))
	}

	start := time.Now()
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, common.ConversionFailed(imagePath, err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", SizeStr: "A4"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("scan2pdf", true)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	name := filepath.Base(imagePath)
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() || info == nil {
		return nil, common.ConversionFailed(imagePath, pdf.Error())
	}
	info.SetDpi(jfifDPI(data))
	w, h := info.Extent()

	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, common.ConversionFailed(imagePath, err)
	}

	c.logger.Debug("converted image to pdf",
		"source_path", imagePath,
		"page_width_pt", w,
		"page_height_pt", h,
		"pdf_bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// jfifDPI reads the horizontal density from a JFIF APP0 segment.
// Returns DefaultDPI when the segment is absent or carries only an aspect ratio.
func jfifDPI(data []byte) float64 {
	// SOI, APP0 marker, length(2), "JFIF\0", version(2), units(1), Xdensity(2), Ydensity(2)
	if len(data) < 18 || data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF || data[3] != 0xE0 {
		return DefaultDPI
	}
	if string(data[6:11]) != "JFIF\x00" {
		return DefaultDPI
	}
	units := data[13]
	x := float64(binary.BigEndian.Uint16(data[14:16]))
	if x == 0 {
		return DefaultDPI
	}
	switch units {
	case 1: // dots per inch
		return x
	case 2: // dots per cm
		return x * 2.54
	default:
		return DefaultDPI
	}
}
