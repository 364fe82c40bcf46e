package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// QRStyle controls how a QR code is rasterised. Nil colours take the palette
// and a non-positive size means 256px. Level is used as given.
type QRStyle struct {
	SizePx     int
	Level      qrcode.RecoveryLevel
	Foreground color.Color
	Background color.Color
}

func (st QRStyle) withDefaults() QRStyle {
	if st.SizePx <= 0 {
		st.SizePx = 256
	}
	if st.Foreground == nil {
		st.Foreground = Foreground
	}
	if st.Background == nil {
		st.Background = Background
	}
	return st
}

// RenderQRCode encodes payload with st. An empty payload yields (nil, nil).
func RenderQRCode(payload string, st QRStyle) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	st = st.withDefaults()
	q, err := qrcode.New(payload, st.Level)
	if err != nil {
		return nil, err
	}
	q.ForegroundColor = st.Foreground
	q.BackgroundColor = st.Background
	return q.Image(st.SizePx), nil
}

// GenerateQRCodeImage renders payload in the palette colours.
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	return RenderQRCode(payload, QRStyle{SizePx: sizePx, Level: qrcode.Medium})
}
