package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/infrastructure/config"
)

const (
	linesCSV = `name,minwidth,maxwidth,maxthickness,maxweight,speedmpm,cost
CTL-1,600,1600,3,25,60,1200
CTL-2,900,2000,8,30,45,1500
`
	coilsCSV = `coilid,product,thickness,width,weight,grade
HR-001,HR,2,1250,20,IS2062
HR-002,HR,2,1250,15,IS2062
CR-001,CR,1.2,1000,8,DC01
HR-003,HR,5,1800,28,IS2062
`
	ordersCSV = `orderid,product,thickness,width,length,quantity,grade,coilpacketweight,priority,duedate
SO-1001,HR,2,1200,2500,100,IS2062,5,1,2025-03-01
SO-1002,HR,2,1195,2500,300,IS2062,5,2,2025-03-01
SO-1003,CR,1.2,950,2000,200,DC01,4,1,2025-03-05
SO-1004,HR,5,1500,3000,100,E350,,3,2025-03-10
`
)

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"lines.csv":  linesCSV,
		"coils.csv":  coilsCSV,
		"orders.csv": ordersCSV,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestEnvironment(t *testing.T, stateFile string) *Environment {
	t.Helper()
	cfg := config.Default()
	cfg.State.File = stateFile
	env, err := NewEnvironment(cfg, zerolog.Nop())
	require.NoError(t, err)
	return env
}

type jsonReport struct {
	Confirmed   bool                  `json:"confirmed"`
	Assignments []entities.Assignment `json:"assignments"`
	Forecasts   []entities.RMForecast `json:"forecasts"`
	Unfulfilled []entities.OrderID    `json:"unfulfilled"`
}

func TestOptimizeCommand_Scenario(t *testing.T) {
	var out bytes.Buffer
	env := newTestEnvironment(t, "")

	cmd := NewOptimizeCommand(Config{ScenarioDir: writeScenario(t), Format: "json"}, env, &out)
	require.NoError(t, cmd.Execute(context.Background()))

	var report jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report), out.String())

	require.Len(t, report.Assignments, 2)
	assert.Equal(t, entities.CoilID("HR-001"), report.Assignments[0].CoilID)
	assert.Equal(t, entities.LineID("CTL-1"), report.Assignments[0].LineID)
	assert.Equal(t, []entities.OrderID{"SO-1001", "SO-1002"}, report.Assignments[0].OrderIDs)
	assert.Equal(t, entities.CoilID("CR-001"), report.Assignments[1].CoilID)
	assert.Equal(t, []entities.OrderID{"SO-1004"}, report.Unfulfilled)
	require.Len(t, report.Forecasts, 1)
	assert.Equal(t, 1520.0, report.Forecasts[0].RecommendedWidth)
	assert.False(t, report.Confirmed)
}

func TestOptimizeCommand_ConfirmAndRestore(t *testing.T) {
	ctx := context.Background()
	stateFile := filepath.Join(t.TempDir(), "state.json")

	var out bytes.Buffer
	cmd := NewOptimizeCommand(Config{ScenarioDir: writeScenario(t), Format: "json", Confirm: true}, newTestEnvironment(t, stateFile), &out)
	require.NoError(t, cmd.Execute(ctx))

	var report jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report), out.String())
	assert.True(t, report.Confirmed)
	for _, a := range report.Assignments {
		assert.Equal(t, entities.AssignmentConfirmed, a.Status)
	}

	// A second environment picks the state up without any input files
	env := newTestEnvironment(t, stateFile)
	restored, err := env.RestoreState(ctx)
	require.NoError(t, err)
	require.True(t, restored)

	snapshot, err := env.Service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Coils, 4)
	assert.Len(t, snapshot.Confirmed, 2)
	for _, c := range snapshot.Coils {
		switch c.ID {
		case "HR-001", "CR-001":
			assert.Equal(t, entities.CoilUsed, c.Status, c.ID)
		default:
			assert.Equal(t, entities.CoilAvailable, c.Status, c.ID)
		}
	}

	out.Reset()
	cmd = NewOptimizeCommand(Config{Format: "text"}, newTestEnvironment(t, stateFile), &out)
	require.NoError(t, cmd.Execute(ctx))
	assert.Contains(t, out.String(), "Coil Plan Summary")
}

func TestOptimizeCommand_Validation(t *testing.T) {
	scenario := writeScenario(t)

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"no inputs", Config{Format: "text"}, "must specify either -scenario"},
		{"partial inputs", Config{Format: "text", CoilsFile: filepath.Join(scenario, "coils.csv")}, "must specify either -scenario"},
		{"bad format", Config{Format: "pdf", ScenarioDir: scenario}, "unsupported output format"},
		{"missing file", Config{Format: "text", ScenarioDir: t.TempDir()}, "file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewOptimizeCommand(tt.config, newTestEnvironment(t, ""), &bytes.Buffer{})
			err := cmd.Execute(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOptimizeCommand_CSVOutput(t *testing.T) {
	outDir := t.TempDir()
	var out bytes.Buffer

	cmd := NewOptimizeCommand(Config{ScenarioDir: writeScenario(t), Format: "csv", OutputDir: outDir, Verbose: true}, newTestEnvironment(t, ""), &out)
	require.NoError(t, cmd.Execute(context.Background()))

	for _, name := range []string{"assignments.csv", "forecasts.csv", "coil_usage.csv"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.Contains(t, out.String(), "4 imported, 0 skipped")
}

func TestOptimizeCommand_Help(t *testing.T) {
	var out bytes.Buffer
	cmd := NewOptimizeCommand(Config{Help: true}, newTestEnvironment(t, ""), &out)
	require.NoError(t, cmd.Execute(context.Background()))
	assert.Contains(t, out.String(), "USAGE:")
}
