package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// ImageSize is the pixel size of rendered QR PNGs.
const ImageSize = 300

// ImagePNG renders the scan URL for a code as a PNG.
func ImagePNG(baseURL, code string) ([]byte, error) {
	png, err := qrcode.Encode(ScanURL(baseURL, code), qrcode.Medium, ImageSize)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return png, nil
}

// ScanURL is the target a scanned code resolves to.
func ScanURL(baseURL, code string) string {
	return baseURL + "/scan/" + code
}
