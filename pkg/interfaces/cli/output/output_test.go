package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/coilplan/pkg/application/services/reporting"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

func sampleReport() *Report {
	return &Report{
		RunID: "run-1",
		Assignments: []entities.Assignment{
			{
				ID:              "a-1",
				CoilID:          "HR-001",
				LineID:          "CTL-1",
				OrderIDs:        []entities.OrderID{"SO-1", "SO-2"},
				Kind:            entities.FullAllocation,
				Pass:            1,
				Utilization:     96.5,
				CoilConsumption: 75,
				CoilBalance:     25,
				AllocatedWeight: 15,
				ChangeoverCost:  100,
				TotalScore:      865,
				Allocations: []entities.OrderAllocation{
					{OrderID: "SO-1", AllocatedWeight: 5},
					{OrderID: "SO-2", AllocatedWeight: 10},
				},
			},
			{
				ID:              "a-2",
				CoilID:          "HR-002",
				LineID:          "CTL-2",
				OrderIDs:        []entities.OrderID{"SO-3"},
				Kind:            entities.PartialAllocation,
				Pass:            2,
				AllocatedWeight: 4.5,
				CoilConsumption: 30,
				CoilBalance:     70,
				Allocations: []entities.OrderAllocation{
					{OrderID: "SO-3", AllocatedWeight: 4.5, Partial: true},
				},
			},
		},
		Forecasts: []entities.RMForecast{
			{
				ID:                   "f-1",
				RecommendedWidth:     1520,
				RecommendedThickness: 2,
				RecommendedWeight:    20,
				Grade:                "E350",
				Unfulfilled:          []entities.OrderID{"SO-4", "SO-5"},
				Quantity:             2,
			},
		},
		Unfulfilled: []entities.OrderID{"SO-4", "SO-5"},
		Metrics: reporting.PlanMetrics{
			Assignments:     2,
			CoilsUsed:       2,
			TotalOrders:     5,
			OrdersFulfilled: 2,
			AllocatedWeight: 19.5,
			Band:            reporting.BandHigh,
			Coils: []reporting.CoilUsage{
				{
					CoilID:      "HR-001",
					Product:     entities.HotRolled,
					Grade:       "IS2062",
					Weight:      20,
					Allocated:   15,
					Consumption: 75,
					Balance:     25,
					Orders: []reporting.OrderShare{
						{OrderID: "SO-1", CoilID: "HR-001", Weight: 5},
						{OrderID: "SO-2", CoilID: "HR-001", Weight: 10},
					},
				},
				{
					CoilID:      "HR-002",
					Weight:      15,
					Allocated:   14.5,
					Consumption: 96.67,
					Scrap:       3.33,
					Orders: []reporting.OrderShare{
						{OrderID: "SO-3", CoilID: "HR-002", Weight: 14.5},
					},
				},
			},
		},
	}
}

func TestGenerate_Text(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()

	err := Generate(sampleReport(), Config{Format: "text", OutputDir: dir, Verbose: true, Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Coil Plan Summary (proposed)")
	assert.Contains(t, text, "Orders Fulfilled: 2 of 5")
	assert.Contains(t, text, "SO-1,SO-2")
	assert.Contains(t, text, "E350")
	assert.Contains(t, text, "Coil Usage")

	saved, err := os.ReadFile(filepath.Join(dir, "coilplan_results.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "HR-002")
}

func TestGenerate_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate(sampleReport(), Config{Format: "json", Out: &out}))

	var decoded struct {
		RunID       string `json:"run_id"`
		Assignments []struct {
			CoilID string `json:"coil_id"`
			Kind   string `json:"kind"`
		} `json:"assignments"`
		Metrics struct {
			Band string `json:"band"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Assignments, 2)
	assert.Equal(t, "partial", decoded.Assignments[1].Kind)
	assert.Equal(t, "high", decoded.Metrics.Band)
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(sampleReport(), Config{Format: "csv", OutputDir: dir, Out: &bytes.Buffer{}}))

	records := readCSV(t, filepath.Join(dir, "assignments.csv"))
	require.Len(t, records, 4, "header plus one row per order allocation")
	assert.Equal(t, assignmentHeader, records[0])
	assert.Equal(t, "SO-2", records[2][5])
	assert.Equal(t, "true", records[3][7])

	forecasts := readCSV(t, filepath.Join(dir, "forecasts.csv"))
	require.Len(t, forecasts, 2)
	assert.Equal(t, "1520", forecasts[1][1])
	assert.Equal(t, "SO-4;SO-5", forecasts[1][6])

	coils := readCSV(t, filepath.Join(dir, "coil_usage.csv"))
	require.Len(t, coils, 3)
	assert.Equal(t, "SO-1;SO-2", coils[1][10])
}

func TestGenerate_CSVRequiresOutputDir(t *testing.T) {
	err := Generate(sampleReport(), Config{Format: "csv", Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(sampleReport(), Config{Format: "pdf", Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestGenerate_XLSX(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(sampleReport(), Config{Format: "xlsx", OutputDir: dir, Out: &bytes.Buffer{}}))

	f, err := excelize.OpenFile(filepath.Join(dir, XLSXFilename))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, AssignmentsSheet, ForecastsSheet, CoilsSheet}, f.GetSheetList())

	rows, err := f.GetRows(AssignmentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "HR-001", rows[1][3])

	band, err := f.GetCellValue(SummarySheet, "B12")
	require.NoError(t, err)
	assert.Equal(t, "high", band)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 1520.0, cellValue("1520"))
	assert.Equal(t, 4.5, cellValue("4.5"))
	assert.Equal(t, "HR-001", cellValue("HR-001"))
	assert.Equal(t, "true", cellValue("true"))
}

func TestCoilChart_Segments(t *testing.T) {
	report := sampleReport()
	chart := NewCoilChart(report.Metrics.Coils)

	segments := chart.Segments(report.Metrics.Coils[0])
	require.Len(t, segments, 3)
	assert.Equal(t, "SO-1", segments[0].Label)
	assert.InDelta(t, 25.0, segments[0].Share, 1e-9)
	assert.Equal(t, "balance", segments[2].Label)
	assert.Equal(t, segments[0].X+segments[0].Width, segments[1].X)

	segments = chart.Segments(report.Metrics.Coils[1])
	require.Len(t, segments, 2)
	assert.Equal(t, "scrap", segments[1].Label)
	assert.Equal(t, scrapColor, segments[1].Color)
}

func TestGenerate_SVG(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate(sampleReport(), Config{Format: "svg", Out: &out}))

	svg := out.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "HR-001")
	assert.Contains(t, svg, "Coil Usage")

	out.Reset()
	require.NoError(t, Generate(&Report{}, Config{Format: "svg", Out: &out}))
	assert.Contains(t, out.String(), "No coils used")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}
