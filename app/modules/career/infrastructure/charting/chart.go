package careercharting

import (
	"bytes"
	"fmt"

	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the chart colours.
type Palette struct {
	Background drawing.Color
	Projected  drawing.Color
	Band       drawing.Color
	Text       drawing.Color
}

// DefaultPalette is the hirelane light theme.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Projected:  drawing.ColorFromHex("1d4ed8"),
	Band:       drawing.ColorFromHex("94a3b8"),
	Text:       drawing.ColorFromHex("0f172a"),
}

// Options sizes the rendered image.
type Options struct {
	Width   int
	Height  int
	Palette Palette
}

// RenderProjection draws the projected salary after each decision as a step
// line, with the min and max of the salary range as dashed bounds.
func RenderProjection(s careerdomain.Scenario, p careerdomain.Projection, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	palette := opts.Palette
	if palette == (Palette{}) {
		palette = DefaultPalette
	}

	// 1. Prepare data series, extending the last point to the scenario end
	points := append([]careerdomain.TimelinePoint{}, p.Timeline...)
	points = append(points, careerdomain.TimelinePoint{Month: s.DurationMonths, Salary: p.FinalSalary})

	xValues := make([]float64, len(points))
	yValues := make([]float64, len(points))
	for i, pt := range points {
		xValues[i] = float64(pt.Month)
		yValues[i] = pt.Salary.InexactFloat64()
	}

	start, end := 0.0, float64(s.DurationMonths)
	bound := func(name string, v float64) chart.ContinuousSeries {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: []float64{start, end},
			YValues: []float64{v, v},
			Style: chart.Style{
				StrokeColor:     palette.Band,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		}
	}

	projected := chart.ContinuousSeries{
		Name:    "Projected salary",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Projected,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.Projected,
		},
	}

	// 2. Setup Chart
	graph := chart.Chart{
		Title:  s.Title,
		Width:  opts.Width,
		Height: opts.Height,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name: "Month",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v)
			},
		},
		YAxis: chart.YAxis{
			Name: "Salary",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{
				Min: p.Range.Min.InexactFloat64() * 0.95,
				Max: p.Range.Max.InexactFloat64() * 1.05,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			bound("Range min", p.Range.Min.InexactFloat64()),
			bound("Range max", p.Range.Max.InexactFloat64()),
			projected,
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	// 3. Render
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render projection chart: %w", err)
	}
	return buffer.Bytes(), nil
}
