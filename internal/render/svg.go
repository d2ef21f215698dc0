package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
)

const (
	svgWidth   = 960
	svgHeight  = 540
	svgPadding = 70
)

// StaticRenderer writes the static chart images of a validated report:
// the monthly revenue line and the top products bars.
type StaticRenderer struct {
	outputDir string
}

func NewStaticRenderer(outputDir string) *StaticRenderer {
	return &StaticRenderer{outputDir: outputDir}
}

// Render writes monthly_revenue.svg and top_products.svg to the output
// directory and returns the written paths.
func (r *StaticRenderer) Render(report validating.Validated) ([]string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name  string
		chart *ChartConfig
		draw  func(*ChartConfig) string
	}{
		{"monthly_revenue.svg", BuildMonthlyChart(report), LineChartSVG},
		{"top_products.svg", BuildTopProductsChart(report), BarChartSVG},
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(r.outputDir, file.name)
		if err := os.WriteFile(path, []byte(file.draw(file.chart)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.name, err)
		}
		written = append(written, path)
	}

	logrus.WithFields(logrus.Fields{
		"output_dir": r.outputDir,
		"files":      len(written),
	}).Info("static charts rendered")

	return written, nil
}

// RenderReport satisfies the scheduler's renderer contract.
func (r *StaticRenderer) RenderReport(report validating.Validated) error {
	_, err := r.Render(report)
	return err
}

// LineChartSVG draws a single-series line chart with point markers and value
// annotations.
func LineChartSVG(chart *ChartConfig) string {
	var b strings.Builder
	openSVG(&b, chart.Title)

	if len(chart.Series) == 0 || len(chart.Series[0].Data) == 0 {
		closeSVG(&b)
		return b.String()
	}

	points := chart.Series[0].Data
	max := maxValue(points)
	if max == 0 {
		max = 1
	}

	plotW := float64(svgWidth - 2*svgPadding)
	plotH := float64(svgHeight - 2*svgPadding)
	step := plotW
	if len(points) > 1 {
		step = plotW / float64(len(points)-1)
	}

	color := chartColor(chart, 0)

	var path strings.Builder
	for i, p := range points {
		x := float64(svgPadding) + float64(i)*step
		y := float64(svgHeight-svgPadding) - (p.Value/max)*plotH
		if i == 0 {
			fmt.Fprintf(&path, "M %.1f %.1f", x, y)
		} else {
			fmt.Fprintf(&path, " L %.1f %.1f", x, y)
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", x, y, color)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`+"\n", x, y-10, escape(p.Text))
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle">%s</text>`+"\n", x, svgHeight-svgPadding+20, escape(p.Label))
	}
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="3"/>`+"\n", path.String(), color)

	drawAxes(&b)
	closeSVG(&b)
	return b.String()
}

// BarChartSVG draws a single-series horizontal bar chart, first entry on top.
func BarChartSVG(chart *ChartConfig) string {
	var b strings.Builder
	openSVG(&b, chart.Title)

	if len(chart.Series) == 0 || len(chart.Series[0].Data) == 0 {
		closeSVG(&b)
		return b.String()
	}

	points := chart.Series[0].Data
	max := maxValue(points)
	if max == 0 {
		max = 1
	}

	plotW := float64(svgWidth - 2*svgPadding - 120)
	rowH := float64(svgHeight-2*svgPadding) / float64(len(points))
	barH := rowH * 0.6

	for i, p := range points {
		y := float64(svgPadding) + float64(i)*rowH + (rowH-barH)/2
		width := (p.Value / max) * plotW
		fmt.Fprintf(&b, `<rect x="%d" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="black" stroke-width="1"/>`+"\n",
			svgPadding+120, y, width, barH, chartColor(chart, i))
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="12" text-anchor="end">%s</text>`+"\n",
			svgPadding+110, y+barH/2+4, escape(p.Label))
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11">%s</text>`+"\n",
			float64(svgPadding+120)+width+6, y+barH/2+4, escape(p.Text))
	}

	closeSVG(&b)
	return b.String()
}

func openSVG(b *strings.Builder, title string) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	fmt.Fprintf(b, `<rect width="%d" height="%d" fill="white"/>`+"\n", svgWidth, svgHeight)
	fmt.Fprintf(b, `<text x="%d" y="35" font-size="20" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
		svgWidth/2, escape(title))
}

func drawAxes(b *strings.Builder) {
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#999" stroke-width="1"/>`+"\n",
		svgPadding, svgHeight-svgPadding, svgWidth-svgPadding, svgHeight-svgPadding)
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#999" stroke-width="1"/>`+"\n",
		svgPadding, svgPadding, svgPadding, svgHeight-svgPadding)
}

func closeSVG(b *strings.Builder) {
	b.WriteString("</svg>\n")
}

func chartColor(chart *ChartConfig, i int) string {
	if len(chart.Colors) == 0 {
		return defaultColors[0]
	}
	return chart.Colors[i%len(chart.Colors)]
}

func escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
