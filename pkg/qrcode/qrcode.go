// Package qrcode renders QR codes for short links.
package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// GenerateDataURI encodes the given URL as a QR code PNG and returns it as a
// data URI suitable for storing on the link record and embedding directly in
// an <img> tag.
func GenerateDataURI(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, defaultSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
