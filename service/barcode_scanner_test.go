package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestQRScannerDecodes(t *testing.T) {
	matrix, err := qrcode.NewQRCodeWriter().Encode("POLICY:PN-4471", gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	codes, err := NewQRScanner().Scan(encodePNG(t, matrix))
	require.NoError(t, err)
	assert.Equal(t, []string{"POLICY:PN-4471"}, codes)
}

func TestQRScannerBlankPage(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 120, 120))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	codes, err := NewQRScanner().Scan(encodePNG(t, blank))
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestQRScannerNotAnImage(t *testing.T) {
	_, err := NewQRScanner().Scan([]byte("not an image"))
	assert.Error(t, err)
}
