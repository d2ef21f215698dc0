// Package render turns validated reports into presentation artifacts: chart
// configurations, static SVG images and the HTML dashboard. Everything here
// accepts validating.Validated only; an unvalidated bundle cannot be drawn.
package render

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// Chart series color palette.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

type ChartConfig struct {
	ChartType string        `json:"chart_type"`
	Title     string        `json:"title"`
	XAxis     string        `json:"x_axis"`
	YAxis     string        `json:"y_axis"`
	Series    []ChartSeries `json:"series"`
	Colors    []string      `json:"colors"`
}

// BuildMonthlyChart plots revenue per month in chronological order.
func BuildMonthlyChart(report validating.Validated) *ChartConfig {
	bundle := report.Bundle()

	points := make([]ChartPoint, 0, len(bundle.MonthlySeries))
	for _, entry := range bundle.MonthlySeries {
		points = append(points, ChartPoint{
			Label: entry.Month,
			Value: entry.Revenue.InexactFloat64(),
			Text:  utils.FormatEurosCompact(entry.Revenue),
		})
	}

	return &ChartConfig{
		ChartType: "line",
		Title:     "Monthly Revenue",
		XAxis:     "Month",
		YAxis:     "Revenue (€)",
		Series:    []ChartSeries{{Name: "Monthly revenue", Data: points}},
		Colors:    assignColors(1),
	}
}

// BuildTopProductsChart plots the ranked top products, best first.
func BuildTopProductsChart(report validating.Validated) *ChartConfig {
	bundle := report.Bundle()

	points := make([]ChartPoint, 0, len(bundle.TopProducts))
	for _, entry := range bundle.TopProducts {
		points = append(points, ChartPoint{
			Label: entry.ProductName,
			Value: entry.Revenue.InexactFloat64(),
			Text:  utils.FormatEuros(entry.Revenue),
		})
	}

	return &ChartConfig{
		ChartType: "bar",
		Title:     "Top 5 Products by Revenue",
		XAxis:     "Revenue (€)",
		YAxis:     "Product",
		Series:    []ChartSeries{{Name: "Revenue by product", Data: points}},
		Colors:    assignColors(len(points)),
	}
}

// BuildTopCustomersChart plots the ranked top customers, best first.
func BuildTopCustomersChart(report validating.Validated) *ChartConfig {
	bundle := report.Bundle()

	points := make([]ChartPoint, 0, len(bundle.TopCustomers))
	for _, entry := range bundle.TopCustomers {
		points = append(points, ChartPoint{
			Label: entry.CustomerName,
			Value: entry.Revenue.InexactFloat64(),
			Text:  utils.FormatEuros(entry.Revenue),
		})
	}

	return &ChartConfig{
		ChartType: "bar",
		Title:     "Top 5 Customers by Revenue",
		XAxis:     "Customer",
		YAxis:     "Revenue (€)",
		Series:    []ChartSeries{{Name: "Revenue by customer", Data: points}},
		Colors:    assignColors(len(points)),
	}
}

// BuildCategoryChart groups raw rows by category. This grouping is
// presentation-specific, so it lives in the renderer and not in the
// aggregation engine.
func BuildCategoryChart(report validating.Validated) *ChartConfig {
	bundle := report.Bundle()

	byCategory := make(map[string]decimal.Decimal)
	for _, row := range bundle.Rows {
		byCategory[row.Category] = byCategory[row.Category].Add(row.Amount)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	points := make([]ChartPoint, 0, len(categories))
	for _, category := range categories {
		revenue := byCategory[category]
		points = append(points, ChartPoint{
			Label: category,
			Value: revenue.InexactFloat64(),
			Text:  utils.FormatEuros(revenue),
		})
	}

	return &ChartConfig{
		ChartType: "bar",
		Title:     "Revenue by Category",
		Series:    []ChartSeries{{Name: "Revenue by category", Data: points}},
		Colors:    assignColors(len(points)),
	}
}

func assignColors(n int) []string {
	colors := make([]string, 0, n)
	for i := 0; i < n; i++ {
		colors = append(colors, defaultColors[i%len(defaultColors)])
	}
	return colors
}

func maxValue(points []ChartPoint) float64 {
	var m float64
	for _, p := range points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}
