package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/application/services/reporting"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "xlsx", "svg"}

// Config holds configuration for output generation
type Config struct {
	Format       string
	OutputDir    string
	Verbose      bool
	OptimizeTime time.Duration
	InputFiles   map[string]string
	Out          io.Writer
}

// Report is everything one plan report shows
type Report struct {
	RunID       string                `json:"run_id,omitempty"`
	Confirmed   bool                  `json:"confirmed"`
	Assignments []entities.Assignment `json:"assignments"`
	Forecasts   []entities.RMForecast `json:"forecasts"`
	Unfulfilled []entities.OrderID    `json:"unfulfilled"`
	Metrics     reporting.PlanMetrics `json:"metrics"`
}

// NewReport builds a report from an optimization result and its metrics
func NewReport(result *dto.OptimizationResult, metrics reporting.PlanMetrics) *Report {
	return &Report{
		RunID:       result.RunID,
		Assignments: result.Assignments,
		Forecasts:   result.Forecasts,
		Unfulfilled: result.Unfulfilled,
		Metrics:     metrics,
	}
}

// Generate creates output in the specified format
func Generate(report *Report, config Config) error {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	case "xlsx":
		return generateXLSXOutput(report, config)
	case "svg":
		return generateSVGOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s (expected one of: %s)", config.Format, strings.Join(Formats, ", "))
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *Report, config Config) error {
	var buf bytes.Buffer
	writeText(&buf, report, config)

	if _, err := config.Out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}

	if config.OutputDir != "" {
		filename, err := writeFile(config.OutputDir, "coilplan_results.txt", buf.Bytes())
		if err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(config.Out, "💾 Results saved to: %s\n", filename)
		}
	}
	return nil
}

func writeText(w io.Writer, report *Report, config Config) {
	m := report.Metrics
	state := "proposed"
	if report.Confirmed {
		state = "confirmed"
	}

	fmt.Fprintf(w, "📊 Coil Plan Summary (%s)\n", state)
	fmt.Fprintf(w, "===========================\n\n")

	if report.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", report.RunID)
	}
	fmt.Fprintf(w, "Assignments: %d\n", m.Assignments)
	fmt.Fprintf(w, "Coils Used: %d\n", m.CoilsUsed)
	fmt.Fprintf(w, "Orders Fulfilled: %d of %d\n", m.OrdersFulfilled, m.TotalOrders)
	fmt.Fprintf(w, "Allocated Weight: %.2f t\n", m.AllocatedWeight)
	fmt.Fprintf(w, "Average Utilization: %.2f%% (%s)\n", m.AverageUtilization, m.Band)
	fmt.Fprintf(w, "Total Scrap: %.0f mm² (%.2f%%)\n", m.TotalScrap, m.ScrapPercentage)
	fmt.Fprintf(w, "Forecasts: %d (%.0f t)\n", len(report.Forecasts), m.ForecastWeight)
	if config.OptimizeTime > 0 {
		fmt.Fprintf(w, "Optimize Time: %v\n", config.OptimizeTime)
	}
	fmt.Fprintln(w)

	if config.Verbose && len(config.InputFiles) > 0 {
		fmt.Fprintf(w, "📁 Inputs:\n")
		kinds := make([]string, 0, len(config.InputFiles))
		for kind := range config.InputFiles {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(w, "  %-8s %s\n", kind+":", config.InputFiles[kind])
		}
		fmt.Fprintln(w)
	}

	if len(report.Assignments) > 0 {
		fmt.Fprintf(w, "📋 Assignments:\n")
		fmt.Fprintf(w, "%-4s %-10s %-10s %-8s %-24s %-10s %-8s %-8s %-10s\n",
			"Pass", "Coil", "Line", "Kind", "Orders", "Alloc (t)", "Cons %", "Util %", "Score")
		fmt.Fprintf(w, "%-4s %-10s %-10s %-8s %-24s %-10s %-8s %-8s %-10s\n",
			"----", "----------", "----------", "--------", "------------------------",
			"----------", "--------", "--------", "----------")

		for _, a := range report.Assignments {
			fmt.Fprintf(w, "%-4d %-10s %-10s %-8s %-24s %-10.2f %-8.1f %-8.1f %-10.1f\n",
				a.Pass,
				a.CoilID,
				a.LineID,
				a.Kind,
				joinOrderIDs(a.OrderIDs),
				a.AllocatedWeight,
				a.CoilConsumption,
				a.Utilization,
				a.TotalScore)
		}
		fmt.Fprintln(w)
	}

	if len(m.MultiCoilOrders) > 0 {
		fmt.Fprintf(w, "🔀 Multi-Coil Orders:\n")
		for _, o := range m.MultiCoilOrders {
			parts := make([]string, len(o.Coils))
			for i, share := range o.Coils {
				parts[i] = fmt.Sprintf("%s %.2f t", share.CoilID, share.Weight)
			}
			fmt.Fprintf(w, "  %-10s %.2f of %.2f t from %s\n", o.OrderID, o.Allocated, o.OrderWeight, strings.Join(parts, ", "))
		}
		fmt.Fprintln(w)
	}

	if config.Verbose && len(m.Coils) > 0 {
		fmt.Fprintf(w, "🧻 Coil Usage:\n")
		fmt.Fprintf(w, "%-10s %-4s %-8s %-10s %-10s %-8s %-8s %-8s\n",
			"Coil", "Prod", "Grade", "Weight", "Allocated", "Cons %", "Bal %", "Scrap %")
		fmt.Fprintf(w, "%-10s %-4s %-8s %-10s %-10s %-8s %-8s %-8s\n",
			"----------", "----", "--------", "----------", "----------", "--------", "--------", "--------")
		for _, c := range m.Coils {
			fmt.Fprintf(w, "%-10s %-4s %-8s %-10.2f %-10.2f %-8.1f %-8.1f %-8.1f\n",
				c.CoilID, c.Product, c.Grade, c.Weight, c.Allocated, c.Consumption, c.Balance, c.Scrap)
		}
		fmt.Fprintln(w)
	}

	if len(report.Forecasts) > 0 {
		fmt.Fprintf(w, "⚠️  RM Forecasts:\n")
		fmt.Fprintf(w, "%-10s %-10s %-10s %-10s %-6s %-24s\n",
			"Width", "Thickness", "Grade", "Weight", "Qty", "Orders")
		fmt.Fprintf(w, "%-10s %-10s %-10s %-10s %-6s %-24s\n",
			"----------", "----------", "----------", "----------", "------", "------------------------")
		for _, f := range report.Forecasts {
			fmt.Fprintf(w, "%-10.0f %-10.2f %-10s %-10.0f %-6d %-24s\n",
				f.RecommendedWidth,
				f.RecommendedThickness,
				f.Grade,
				f.RecommendedWeight,
				f.Quantity,
				joinOrderIDs(f.Unfulfilled))
		}
		fmt.Fprintln(w)
	}

	if len(report.Unfulfilled) == 0 && m.TotalOrders > 0 {
		fmt.Fprintf(w, "✅ All orders fulfilled\n")
	}
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Out, string(jsonData))
		return nil
	}

	filename, err := writeFile(config.OutputDir, "coilplan_results.json", jsonData)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateSVGOutput writes the coil usage chart
func generateSVGOutput(report *Report, config Config) error {
	svg := NewCoilChart(report.Metrics.Coils).GenerateSVG(report.Metrics.Coils)

	if config.OutputDir == "" {
		fmt.Fprintln(config.Out, svg)
		return nil
	}

	filename, err := writeFile(config.OutputDir, "coil_usage.svg", []byte(svg))
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 Coil usage chart saved to: %s\n", filename)
	}
	return nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filename, nil
}

func joinOrderIDs(ids []entities.OrderID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
