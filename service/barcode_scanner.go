package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/tiff"
)

// BarcodeScanner decodes QR codes printed on a page image.
type BarcodeScanner interface {
	Scan(data []byte) ([]string, error)
}

type qrScanner struct{}

func NewQRScanner() BarcodeScanner {
	return &qrScanner{}
}

// Scan returns the payload of the QR code found on the image, if any. A page
// without a QR code is not an error.
func (s *qrScanner) Scan(data []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return decodeQR(img)
}

func decodeQR(img image.Image) ([]string, error) {
	// Convert image to BinaryBitmap for QR decoding
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	qrReader := qrcode.NewQRCodeReader()
	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode QR code: %w", err)
	}

	text := strings.TrimSpace(result.GetText())
	if text == "" {
		return nil, nil
	}
	log.Printf("QR code decoded, length: %d bytes", len(text))
	return []string{text}, nil
}
