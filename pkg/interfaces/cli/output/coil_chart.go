package output

import (
	"fmt"
	"html"
	"strings"

	"github.com/vsinha/coilplan/pkg/application/services/reporting"
)

// CoilChart draws one horizontal bar per used coil, split into the order
// shares it serves and the remaining balance or scrap
type CoilChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
}

// CoilSegment is one stretch of a coil bar
type CoilSegment struct {
	Label string
	Share float64 // percent of the coil weight
	X     int
	Width int
	Color string
}

var segmentColors = []string{"#4CAF50", "#2196F3", "#9C27B0", "#009688", "#3F51B5"}

const (
	balanceColor = "#BDBDBD"
	scrapColor   = "#F44336"
)

// NewCoilChart sizes a chart for the given coils
func NewCoilChart(coils []reporting.CoilUsage) *CoilChart {
	rowHeight := 30
	return &CoilChart{
		Width:        1000,
		Height:       len(coils)*rowHeight + 140,
		MarginLeft:   160,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 80,
		RowHeight:    rowHeight,
	}
}

// GenerateSVG creates an SVG representation of the coil usage
func (cc *CoilChart) GenerateSVG(coils []reporting.CoilUsage) string {
	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, cc.Width, cc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.coil-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.axis-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.segment { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.segment-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, cc.Width, cc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Coil Usage</text>`, cc.Width/2))

	if len(coils) == 0 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="coil-label" text-anchor="middle">No coils used</text>`,
			cc.Width/2, cc.MarginTop+20))
		svg.WriteString(`</svg>`)
		return svg.String()
	}

	cc.drawGrid(&svg, len(coils))
	for i, coil := range coils {
		y := cc.MarginTop + i*cc.RowHeight
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="coil-label" text-anchor="end">%s</text>`,
			cc.MarginLeft-10, y+cc.RowHeight/2+4, html.EscapeString(string(coil.CoilID))))
		for _, segment := range cc.Segments(coil) {
			cc.drawSegment(&svg, segment, y)
		}
	}
	cc.drawLegend(&svg, len(coils))

	svg.WriteString(`</svg>`)
	return svg.String()
}

// Segments splits a coil bar into its order shares followed by the
// remaining balance or scrap
func (cc *CoilChart) Segments(coil reporting.CoilUsage) []CoilSegment {
	plotWidth := cc.Width - cc.MarginLeft - cc.MarginRight
	x := cc.MarginLeft
	var segments []CoilSegment

	add := func(label string, share float64, color string) {
		if share <= 0 {
			return
		}
		width := int(share / 100 * float64(plotWidth))
		segments = append(segments, CoilSegment{Label: label, Share: share, X: x, Width: width, Color: color})
		x += width
	}

	for i, order := range coil.Orders {
		share := 0.0
		if coil.Weight > 0 {
			share = order.Weight / coil.Weight * 100
		}
		add(string(order.OrderID), share, segmentColors[i%len(segmentColors)])
	}
	add("balance", coil.Balance, balanceColor)
	add("scrap", coil.Scrap, scrapColor)
	return segments
}

func (cc *CoilChart) drawGrid(svg *strings.Builder, rows int) {
	plotWidth := cc.Width - cc.MarginLeft - cc.MarginRight
	bottom := cc.MarginTop + rows*cc.RowHeight
	for pct := 0; pct <= 100; pct += 25 {
		x := cc.MarginLeft + pct*plotWidth/100
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, cc.MarginTop, x, bottom))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" text-anchor="middle">%d%%</text>`,
			x, bottom+15, pct))
	}
}

func (cc *CoilChart) drawSegment(svg *strings.Builder, segment CoilSegment, rowY int) {
	barHeight := cc.RowHeight - 4
	barY := rowY + 2

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="segment">`,
		segment.X, barY, segment.Width, barHeight, segment.Color))
	svg.WriteString(fmt.Sprintf(`<title>%s: %.1f%%</title></rect>`, html.EscapeString(segment.Label), segment.Share))

	if segment.Width > 50 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="segment-text" text-anchor="middle">%s</text>`,
			segment.X+segment.Width/2, barY+barHeight/2+3, html.EscapeString(segment.Label)))
	}
}

func (cc *CoilChart) drawLegend(svg *strings.Builder, rows int) {
	legendY := cc.MarginTop + rows*cc.RowHeight + 35
	items := []struct {
		color string
		label string
	}{
		{segmentColors[0], "Order share"},
		{balanceColor, "Balance"},
		{scrapColor, "Scrap"},
	}
	for i, item := range items {
		x := cc.MarginLeft + i*140
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`, x, legendY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label">%s</text>`, x+18, legendY+8, item.label))
	}
}
