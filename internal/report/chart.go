package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

const (
	chartWidth  = 960
	chartHeight = 420
	panelMargin = 48
	barWidth    = 84
)

var (
	tierColors = map[domain.RiskTier]color.RGBA{
		domain.RiskTierLow:    {R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
		domain.RiskTierMedium: {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
		domain.RiskTierHigh:   {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	}
	axisColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	textColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
)

type bar struct {
	tier  domain.RiskTier
	value float64
	label string
}

// renderChart draws customers and revenue at risk per tier side by side as a PNG
func renderChart(summary domain.BatchSummary) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	customers := make([]bar, len(summary))
	revenue := make([]bar, len(summary))
	for i, row := range summary {
		customers[i] = bar{tier: row.Tier, value: float64(row.Customers), label: fmt.Sprintf("%d", row.Customers)}
		revenue[i] = bar{tier: row.Tier, value: row.RevenueAtRisk.InexactFloat64(), label: formatMoney(row.RevenueAtRisk)}
	}

	half := chartWidth / 2
	drawPanel(img, image.Rect(0, 0, half, chartHeight), "Customer Risk Distribution", customers)
	drawPanel(img, image.Rect(half, 0, chartWidth, chartHeight), "Revenue at Risk ($)", revenue)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPanel(img *image.RGBA, area image.Rectangle, title string, bars []bar) {
	top := area.Min.Y + panelMargin
	baseline := area.Max.Y - panelMargin
	left := area.Min.X + panelMargin
	right := area.Max.X - panelMargin/2

	drawText(img, title, area.Min.X+(area.Dx()-textWidth(title))/2, area.Min.Y+panelMargin/2)

	fill(img, image.Rect(left, top, left+1, baseline+1), axisColor)
	fill(img, image.Rect(left, baseline, right, baseline+1), axisColor)

	maxValue := 0.0
	for _, b := range bars {
		if b.value > maxValue {
			maxValue = b.value
		}
	}

	if len(bars) == 0 {
		return
	}
	slot := (right - left) / len(bars)
	plotHeight := float64(baseline - top - 16)

	for i, b := range bars {
		centre := left + slot*i + slot/2
		height := 0
		if maxValue > 0 {
			height = int(b.value / maxValue * plotHeight)
		}

		fill(img, image.Rect(centre-barWidth/2, baseline-height, centre+barWidth/2, baseline), tierColors[b.tier])
		drawText(img, b.label, centre-textWidth(b.label)/2, baseline-height-4)

		name := b.tier.String()
		drawText(img, name, centre-textWidth(name)/2, baseline+18)
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, s string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: textColor},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Round()
}
