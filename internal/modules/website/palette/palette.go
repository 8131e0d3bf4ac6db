package palette

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
)

const (
	swatchWidth  = 240
	swatchHeight = 200
	labelHeight  = 56
)

// Unknown is drawn for palette entries that cannot be parsed.
var Unknown = color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}

var (
	faceOnce sync.Once
	face     font.Face
	faceErr  error
)

func labelFace() (font.Face, error) {
	faceOnce.Do(func() {
		parsed, err := truetype.Parse(gobold.TTF)
		if err != nil {
			faceErr = fmt.Errorf("failed to parse TTF: %w", err)
			return
		}
		face = truetype.NewFace(parsed, &truetype.Options{
			Size:    20,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	})
	return face, faceErr
}

// Render draws the primary, secondary and accent colors side by side and encodes a PNG.
// Missing keys render as Unknown.
func Render(colors map[string]string) ([]byte, error) {
	ff, err := labelFace()
	if err != nil {
		return nil, err
	}

	w := swatchWidth * len(site.ColorKeys)
	dc := gg.NewContext(w, swatchHeight+labelHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(ff)

	for i, key := range site.ColorKeys {
		raw := strings.TrimSpace(colors[key])
		c, ok := Parse(raw)
		if !ok {
			c = Unknown
		}
		x := float64(i * swatchWidth)

		dc.SetColor(c)
		dc.DrawRectangle(x, 0, swatchWidth, swatchHeight)
		dc.Fill()

		label := key
		if raw != "" {
			label = key + " " + raw
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, x+swatchWidth/2, swatchHeight+labelHeight/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse understands #rgb, #rrggbb and CSS color names.
func Parse(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 {
			return color.NRGBA{}, false
		}
		raw, err := hex.DecodeString(h)
		if err != nil {
			return color.NRGBA{}, false
		}
		return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func ToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
