package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/coilplan/pkg/application/services/reporting"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// generateCSVOutput creates CSV output
func generateCSVOutput(report *Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	assignmentsFile := filepath.Join(config.OutputDir, "assignments.csv")
	if err := writeAssignmentsCSV(report.Assignments, assignmentsFile); err != nil {
		return fmt.Errorf("failed to write assignments CSV: %w", err)
	}

	forecastsFile := filepath.Join(config.OutputDir, "forecasts.csv")
	if err := writeForecastsCSV(report.Forecasts, forecastsFile); err != nil {
		return fmt.Errorf("failed to write forecasts CSV: %w", err)
	}

	coilsFile := filepath.Join(config.OutputDir, "coil_usage.csv")
	if err := writeCoilUsageCSV(report.Metrics.Coils, coilsFile); err != nil {
		return fmt.Errorf("failed to write coil usage CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 CSV results saved to:\n")
		fmt.Fprintf(config.Out, "  Assignments: %s\n", assignmentsFile)
		fmt.Fprintf(config.Out, "  Forecasts: %s\n", forecastsFile)
		fmt.Fprintf(config.Out, "  Coil Usage: %s\n", coilsFile)
	}

	return nil
}

var assignmentHeader = []string{
	"assignment_id", "pass", "kind", "coil_id", "line_id", "order_id",
	"order_allocated", "partial", "coil_allocated", "side_scrap", "end_scrap",
	"utilization", "coil_consumption", "coil_balance", "changeover_cost", "score", "status",
}

// assignmentRows flattens assignments to one row per order allocation
func assignmentRows(assignments []entities.Assignment) [][]string {
	var rows [][]string
	for _, a := range assignments {
		for _, alloc := range a.Allocations {
			rows = append(rows, []string{
				string(a.ID),
				strconv.Itoa(a.Pass),
				a.Kind.String(),
				string(a.CoilID),
				string(a.LineID),
				string(alloc.OrderID),
				formatFloat(alloc.AllocatedWeight),
				strconv.FormatBool(alloc.Partial),
				formatFloat(a.AllocatedWeight),
				formatFloat(a.SideScrap),
				formatFloat(a.EndScrap),
				formatFloat(a.Utilization),
				formatFloat(a.CoilConsumption),
				formatFloat(a.CoilBalance),
				formatFloat(a.ChangeoverCost),
				formatFloat(a.TotalScore),
				a.Status.String(),
			})
		}
	}
	return rows
}

var forecastHeader = []string{
	"forecast_id", "recommended_width", "recommended_thickness", "grade",
	"recommended_weight", "quantity", "order_ids",
}

func forecastRows(forecasts []entities.RMForecast) [][]string {
	rows := make([][]string, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []string{
			string(f.ID),
			formatFloat(f.RecommendedWidth),
			formatFloat(f.RecommendedThickness),
			f.Grade,
			formatFloat(f.RecommendedWeight),
			strconv.Itoa(f.Quantity),
			strings.ReplaceAll(joinOrderIDs(f.Unfulfilled), ",", ";"),
		})
	}
	return rows
}

var coilUsageHeader = []string{
	"coil_id", "product", "grade", "width", "thickness", "weight",
	"allocated", "consumption", "balance", "scrap", "orders",
}

func coilUsageRows(coils []reporting.CoilUsage) [][]string {
	rows := make([][]string, 0, len(coils))
	for _, c := range coils {
		orders := make([]string, len(c.Orders))
		for i, share := range c.Orders {
			orders[i] = string(share.OrderID)
		}
		rows = append(rows, []string{
			string(c.CoilID),
			c.Product.String(),
			c.Grade,
			formatFloat(c.Width),
			formatFloat(c.Thickness),
			formatFloat(c.Weight),
			formatFloat(c.Allocated),
			formatFloat(c.Consumption),
			formatFloat(c.Balance),
			formatFloat(c.Scrap),
			strings.Join(orders, ";"),
		})
	}
	return rows
}

func writeAssignmentsCSV(assignments []entities.Assignment, filename string) error {
	return writeCSV(filename, assignmentHeader, assignmentRows(assignments))
}

func writeForecastsCSV(forecasts []entities.RMForecast, filename string) error {
	return writeCSV(filename, forecastHeader, forecastRows(forecasts))
}

func writeCoilUsageCSV(coils []reporting.CoilUsage, filename string) error {
	return writeCSV(filename, coilUsageHeader, coilUsageRows(coils))
}

func writeCSV(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
