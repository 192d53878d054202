package elements

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// The measuring face is the fixed 7x13 bitmap font scaled to the requested
// size. Renderers use their own fonts; this gives a stable, deterministic
// estimate for auto-sizing text and notes on the server side.
var measureFace font.Face = basicfont.Face7x13

const measureFaceSize = 13

// MeasureText returns the width and height of text set at size. Every line
// break starts a new line; an empty text measures as one empty line.
func MeasureText(text string, size float64) (float64, float64) {
	if size <= 0 {
		size = measureFaceSize
	}
	scale := size / measureFaceSize
	lineHeight := float64(measureFace.Metrics().Height.Ceil()) * scale

	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		w := float64(font.MeasureString(measureFace, line).Ceil()) * scale
		width = max(width, w)
	}
	return math.Ceil(width), math.Ceil(lineHeight * float64(len(lines)))
}

// WrapText breaks text into lines no wider than maxWidth at size. Words
// longer than the width are kept whole on their own line.
func WrapText(text string, size, maxWidth float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if w, _ := MeasureText(candidate, size); w > maxWidth {
				out = append(out, line)
				line = word
				continue
			}
			line = candidate
		}
		out = append(out, line)
	}
	return out
}
