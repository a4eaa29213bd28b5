package qr

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Label describes one printable QR label.
type Label struct {
	Title    string // item or warehouse name
	Subtitle string // serial number, location or similar
	Code     string
}

// LabelPDF renders a single A6 label: the QR image centered with the
// title, subtitle and code below it.
func LabelPDF(baseURL string, l Label) ([]byte, error) {
	png, err := ImagePNG(baseURL, l.Code)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(l.Code, opts, bytes.NewReader(png))

	pageW, _ := pdf.GetPageSize()
	const imgW = 60.0
	pdf.ImageOptions(l.Code, (pageW-imgW)/2, 12, imgW, imgW, false, opts, 0, "")

	pdf.SetY(12 + imgW + 6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, l.Title, "", 1, "C", false, 0, "")
	if l.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, l.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Courier", "", 11)
	pdf.CellFormat(0, 6, l.Code, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering label PDF: %w", err)
	}
	return buf.Bytes(), nil
}
