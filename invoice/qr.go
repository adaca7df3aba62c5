package invoice

import (
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the rendered QR code edge length in pixels.
const DefaultQRSize = 256

// QRCodePNG renders the payload as a QR code PNG with high error
// correction, suitable for on-screen scanning. A size of 0 uses
// DefaultQRSize.
func (p *Payload) QRCodePNG(size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	data, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.High, size)
}
