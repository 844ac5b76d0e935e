package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SummarySheet     = "Summary"
	AssignmentsSheet = "Assignments"
	ForecastsSheet   = "Forecasts"
	CoilsSheet       = "Coils"
)

// XLSXFilename is the workbook name the xlsx format writes
const XLSXFilename = "coilplan_plan.xlsx"

// generateXLSXOutput writes the plan workbook to the output directory
func generateXLSXOutput(report *Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	filename, err := writeFile(config.OutputDir, XLSXFilename, data.Bytes())
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 Workbook saved to: %s\n", filename)
	}
	return nil
}

// BuildWorkbook renders a report as a workbook with summary, assignment,
// forecast and coil usage sheets
func BuildWorkbook(report *Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	m := report.Metrics
	summary := [][]interface{}{
		{"Run", report.RunID},
		{"Confirmed", report.Confirmed},
		{"Assignments", m.Assignments},
		{"Coils Used", m.CoilsUsed},
		{"Total Orders", m.TotalOrders},
		{"Orders Served", m.OrdersServed},
		{"Orders Fulfilled", m.OrdersFulfilled},
		{"Total Coil Weight (t)", m.TotalCoilWeight},
		{"Allocated Weight (t)", m.AllocatedWeight},
		{"Average Utilization (%)", m.AverageUtilization},
		{"Utilization Band", m.Band.String()},
		{"Total Scrap (mm²)", m.TotalScrap},
		{"Scrap (%)", m.ScrapPercentage},
		{"Forecasts", len(report.Forecasts)},
		{"Forecast Weight (t)", m.ForecastWeight},
	}
	if err := writeSheet(f, SummarySheet, []string{"Metric", "Value"}, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{AssignmentsSheet, assignmentHeader, assignmentRows(report.Assignments)},
		{ForecastsSheet, forecastHeader, forecastRows(report.Forecasts)},
		{CoilsSheet, coilUsageHeader, coilUsageRows(m.Coils)},
	}
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", sheet.name, err)
		}
		if err := writeSheet(f, sheet.name, sheet.header, cellValues(sheet.rows), headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	for i, h := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
		f.SetColWidth(sheet, col, col, float64(max(len(h)+2, 12)))
	}

	for rowIdx, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, rowIdx+1, err)
		}
	}
	return nil
}

// cellValues converts text rows to cell values, keeping numbers numeric
func cellValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		out[i] = values
	}
	return out
}

func cellValue(v string) interface{} {
	if n, err := strconv.ParseFloat(v, 64); err == nil && formatFloat(n) == v {
		return n
	}
	return v
}
