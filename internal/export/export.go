// Package export renders dashboard tables as paginated A4 PDF documents.
package export

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-pdf/fpdf"
)

var (
	ErrEmptyImage = errors.New("export: empty image")
	ErrBadImage   = errors.New("export: unreadable image")
)

const (
	pageSize  = "A4"
	imageName = "snapshot"
	minSlice  = 0.01
)

// PageOffsets returns the vertical offset at which a content image is drawn
// on each page: 0, -page, -2*page and so on until the content is exhausted.
// There is always at least one page.
func PageOffsets(contentHeight, pageHeight float64) []float64 {
	offsets := []float64{0}
	if pageHeight <= 0 {
		return offsets
	}
	for left := contentHeight - pageHeight; left > minSlice; left -= pageHeight {
		offsets = append(offsets, offsets[len(offsets)-1]-pageHeight)
	}
	return offsets
}

// RenderImage writes a PDF that shows a rasterized PNG snapshot scaled to the
// page width and sliced across as many A4 pages as its height needs.
func RenderImage(w io.Writer, png []byte) error {
	pdf, err := imageDocument(png)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func imageDocument(png []byte) (*fpdf.Fpdf, error) {
	if len(png) == 0 {
		return nil, ErrEmptyImage
	}
	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	info := pdf.RegisterImageOptionsReader(imageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if pdf.Err() || info == nil || info.Width() <= 0 {
		return nil, errors.Join(ErrBadImage, pdf.Error())
	}

	pageW, pageH := pdf.GetPageSize()
	imgH := info.Height() * pageW / info.Width()
	for _, y := range PageOffsets(imgH, pageH) {
		pdf.AddPage()
		pdf.ImageOptions(imageName, 0, y, pageW, imgH, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}
