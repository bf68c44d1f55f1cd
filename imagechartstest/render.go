package imagechartstest

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

type chartSpec struct {
	size     string
	data     string
	animated bool
}

var sliceColors = []string{"#3366cc", "#dc3912", "#ff9900", "#109618", "#990099", "#0099c6"}

// render draws a pie of the first data series and encodes it as PNG, or
// as a two frame GIF for animated charts. It returns the content type.
func render(w io.Writer, spec chartSpec) (string, error) {
	width, height, ok := parseSize(spec.size)
	if !ok {
		return "", fmt.Errorf("invalid size %q", spec.size)
	}

	values := parseSeries(spec.data)

	if !spec.animated {
		dc := drawPie(width, height, values, 1)
		if err := dc.EncodePNG(w); err != nil {
			return "", fmt.Errorf("encoding png: %w", err)
		}

		return "image/png", nil
	}

	anim := gif.GIF{}
	for _, progress := range []float64{0.5, 1} {
		frame := drawPie(width, height, values, progress).Image()

		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.Draw(paletted, paletted.Rect, frame, frame.Bounds().Min, draw.Src)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, 50)
	}

	if err := gif.EncodeAll(w, &anim); err != nil {
		return "", fmt.Errorf("encoding gif: %w", err)
	}

	return "image/gif", nil
}

func drawPie(width, height int, values []float64, progress float64) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 || math.IsInf(total, 0) {
		return dc
	}

	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Min(cx, cy)
	angle := -math.Pi / 2

	for i, v := range values {
		sweep := 2 * math.Pi * v / total * progress

		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.SetHexColor(sliceColors[i%len(sliceColors)])
		dc.Fill()

		angle += sweep
	}

	return dc
}

// parseSeries reads the first series of text ("t:") or auto ("a:") encoded
// chart data. Values that do not parse, negative values and non-finite
// values are skipped.
func parseSeries(data string) []float64 {
	_, raw, ok := strings.Cut(data, ":")
	if !ok {
		return nil
	}
	first, _, _ := strings.Cut(raw, "|")

	var out []float64
	for field := range strings.SplitSeq(first, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}

	return out
}
