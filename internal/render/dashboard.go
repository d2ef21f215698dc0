package render

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

const dashboardFile = "dashboard.html"

type dashboardData struct {
	GeneratedAt   string
	RowCount      int
	TotalRevenue  string
	AverageBasket string
	TopCustomers  []customerRow

	MonthlyChart      template.HTML
	TopProductsChart  template.HTML
	TopCustomersChart template.HTML
	CategoryChart     template.HTML
}

type customerRow struct {
	Name      string
	Revenue   string
	Purchases int
}

// DashboardRenderer writes the self-contained HTML dashboard of a validated
// report: summary stats plus the four chart panels.
type DashboardRenderer struct {
	outputDir string
	tmpl      *template.Template
}

func NewDashboardRenderer(outputDir string) (*DashboardRenderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/dashboard.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	return &DashboardRenderer{
		outputDir: outputDir,
		tmpl:      tmpl,
	}, nil
}

// Render writes dashboard.html and returns its path.
func (r *DashboardRenderer) Render(report validating.Validated) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	bundle := report.Bundle()

	data := dashboardData{
		GeneratedAt:   bundle.GeneratedAt.Format(time.RFC1123),
		RowCount:      len(bundle.Rows),
		TotalRevenue:  utils.FormatEuros(bundle.TotalRevenue),
		AverageBasket: utils.FormatEuros(bundle.AverageBasket),
		TopCustomers:  customerRows(bundle.TopCustomers),

		MonthlyChart:      template.HTML(LineChartSVG(BuildMonthlyChart(report))),
		TopProductsChart:  template.HTML(BarChartSVG(BuildTopProductsChart(report))),
		TopCustomersChart: template.HTML(BarChartSVG(BuildTopCustomersChart(report))),
		CategoryChart:     template.HTML(BarChartSVG(BuildCategoryChart(report))),
	}

	path := filepath.Join(r.outputDir, dashboardFile)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dashboardFile, err)
	}
	defer file.Close()

	if err := r.tmpl.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to execute dashboard template: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path": path,
		"rows": data.RowCount,
	}).Info("dashboard rendered")

	return path, nil
}

// RenderReport satisfies the scheduler's renderer contract.
func (r *DashboardRenderer) RenderReport(report validating.Validated) error {
	_, err := r.Render(report)
	return err
}

func customerRows(entries []domain.CustomerRevenue) []customerRow {
	rows := make([]customerRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, customerRow{
			Name:      entry.CustomerName,
			Revenue:   utils.FormatEuros(entry.Revenue),
			Purchases: entry.PurchaseCount,
		})
	}
	return rows
}
