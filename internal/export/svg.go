package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/episim/internal/ctmc"
)

var palette = []string{"#00ccff", "#ff4444", "#00ff88", "#ffcc00", "#ff00ff", "#8888ff"}

type Point struct{ X, Y float64 }

type Series struct {
	Name   string
	Points []Point
}

// bounds returns the padded data box over every series.
func bounds(series []Series) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.05, maxX + rangeX*0.05, minY - rangeY*0.1, maxY + rangeY*0.1
}

// WriteSVG draws each series as a polyline with a legend. Series with fewer
// than two points are skipped.
func WriteSVG(w io.Writer, series []Series, width, height int, title string) error {
	var drawn []Series
	for _, s := range series {
		if len(s.Points) >= 2 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return fmt.Errorf("export: nothing to draw")
	}

	minX, maxX, minY, maxY := bounds(drawn)
	rangeX := maxX - minX
	rangeY := maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
`, escape(title)))
	}

	for i, s := range drawn {
		color := palette[i%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, width-90, 16+14*i, color, escape(s.Name)))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// Trajectory turns the recorded columns into time series. The chain holds
// its state between events, so each sample is drawn as a step.
func Trajectory(result *ctmc.Result, names []string, cols []int) []Series {
	out := make([]Series, 0, len(cols))
	for _, c := range cols {
		values := result.Series(c)
		pts := make([]Point, 0, 2*len(values))
		for i, v := range values {
			if i > 0 {
				pts = append(pts, Point{X: result.Times[i], Y: values[i-1]})
			}
			pts = append(pts, Point{X: result.Times[i], Y: v})
		}
		out = append(out, Series{Name: name(names, c), Points: pts})
	}
	return out
}

// Phase pairs two columns as a phase-plane curve, e.g. S against I.
func Phase(result *ctmc.Result, names []string, xCol, yCol int) Series {
	xs, ys := result.Series(xCol), result.Series(yCol)
	pts := make([]Point, len(xs))
	for i := range xs {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	return Series{Name: name(names, xCol) + "-" + name(names, yCol), Points: pts}
}

func name(names []string, col int) string {
	if col < len(names) && names[col] != "" {
		return names[col]
	}
	return fmt.Sprintf("x%d", col)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
