package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/coilplan/pkg/interfaces/cli/output"
)

// Input kinds, in load order
const (
	inputLines  = "Lines"
	inputCoils  = "Coils"
	inputOrders = "Orders"
)

var inputKinds = []string{inputLines, inputCoils, inputOrders}

// Config holds configuration for the optimize command
type Config struct {
	ScenarioDir string
	CoilsFile   string
	OrdersFile  string
	LinesFile   string
	OutputDir   string
	Format      string
	Verbose     bool
	Confirm     bool
	Help        bool
}

// OptimizeCommand loads inventory, demand and lines, runs the allocation
// engine and reports the plan
type OptimizeCommand struct {
	config Config
	env    *Environment
	out    io.Writer
}

// NewOptimizeCommand creates a new optimize command with the given configuration
func NewOptimizeCommand(config Config, env *Environment, out io.Writer) *OptimizeCommand {
	if out == nil {
		out = os.Stdout
	}
	return &OptimizeCommand{
		config: config,
		env:    env,
		out:    out,
	}
}

// Execute runs the optimize command
func (c *OptimizeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	restored, err := c.env.RestoreState(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	if err := c.validateInputs(restored); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files, restored)
	}

	if err := c.loadInputs(ctx, files); err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🔄 Running allocation passes...")
	}

	startTime := time.Now()
	result, err := c.env.Service.Optimize(ctx)
	optimizeTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running optimization: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Optimization completed in %v\n\n", optimizeTime)
	}

	metrics, err := c.env.Service.Summary(ctx)
	if err != nil {
		return fmt.Errorf("error computing plan metrics: %w", err)
	}
	report := output.NewReport(result, *metrics)

	if c.config.Confirm && len(result.Assignments) > 0 {
		confirmation, err := c.env.Service.Confirm(ctx)
		if err != nil {
			return fmt.Errorf("error confirming plan: %w", err)
		}
		if metrics, err = c.env.Service.Summary(ctx); err != nil {
			return fmt.Errorf("error computing plan metrics: %w", err)
		}
		report.Assignments = confirmation.Assignments
		report.Metrics = *metrics
		report.Confirmed = true

		if c.config.Verbose {
			fmt.Fprintf(c.out, "🔒 Plan confirmed: %d coils used\n\n", len(confirmation.CoilsUsed()))
		}
	}

	if err := c.env.SaveState(ctx); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	outputConfig := output.Config{
		Format:       c.config.Format,
		OutputDir:    c.config.OutputDir,
		Verbose:      c.config.Verbose,
		OptimizeTime: optimizeTime,
		InputFiles:   files,
		Out:          c.out,
	}
	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Coil planning complete!")
	}
	return nil
}

// loadInputs imports every resolved file into the planning service. Rows
// that fail validation are skipped and logged.
func (c *OptimizeCommand) loadInputs(ctx context.Context, files map[string]string) error {
	if len(files) == 0 {
		return nil
	}
	if c.config.Verbose {
		fmt.Fprintln(c.out, "📂 Loading data from CSV files...")
	}

	loader := csv.NewLoader()
	var reports []*csv.ImportReport

	if path, ok := files[inputLines]; ok {
		lines, report, err := loader.LoadLines(path)
		if err != nil {
			return fmt.Errorf("error loading lines: %w", err)
		}
		if err := c.env.Service.AddLines(ctx, lines, path, report.Skipped); err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if path, ok := files[inputCoils]; ok {
		coils, report, err := loader.LoadCoils(path)
		if err != nil {
			return fmt.Errorf("error loading coils: %w", err)
		}
		if err := c.env.Service.AddCoils(ctx, coils, path, report.Skipped); err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if path, ok := files[inputOrders]; ok {
		orders, report, err := loader.LoadOrders(path)
		if err != nil {
			return fmt.Errorf("error loading orders: %w", err)
		}
		if err := c.env.Service.AddOrders(ctx, orders, path, report.Skipped); err != nil {
			return err
		}
		reports = append(reports, report)
	}

	for _, report := range reports {
		for _, rowErr := range report.RowErrors {
			c.env.Logger.Warn().Str("file", report.Source).Msg("skipped " + rowErr)
		}
		if c.config.Verbose {
			fmt.Fprintf(c.out, "  %s: %d imported, %d skipped\n", report.Source, report.Imported, report.Skipped)
		}
	}
	if c.config.Verbose {
		fmt.Fprintln(c.out)
	}
	return nil
}

// validateInputs validates the command configuration. Input files may be
// omitted when a saved state was restored.
func (c *OptimizeCommand) validateInputs(restored bool) error {
	if !slices.Contains(output.Formats, c.config.Format) {
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	if restored || c.config.ScenarioDir != "" {
		return nil
	}
	if c.config.CoilsFile == "" || c.config.OrdersFile == "" || c.config.LinesFile == "" {
		return fmt.Errorf("must specify either -scenario directory or -coils, -orders and -lines CSV files")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *OptimizeCommand) resolveInputFiles() (map[string]string, error) {
	files := make(map[string]string, len(inputKinds))

	if c.config.ScenarioDir != "" {
		files[inputCoils] = filepath.Join(c.config.ScenarioDir, "coils.csv")
		files[inputOrders] = filepath.Join(c.config.ScenarioDir, "orders.csv")
		files[inputLines] = filepath.Join(c.config.ScenarioDir, "lines.csv")
	}
	// Individual files override the scenario directory
	if c.config.CoilsFile != "" {
		files[inputCoils] = c.config.CoilsFile
	}
	if c.config.OrdersFile != "" {
		files[inputOrders] = c.config.OrdersFile
	}
	if c.config.LinesFile != "" {
		files[inputLines] = c.config.LinesFile
	}

	for _, kind := range inputKinds {
		path, ok := files[kind]
		if !ok {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", kind, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *OptimizeCommand) printHeader(files map[string]string, restored bool) {
	fmt.Fprintf(c.out, "🚀 Coil Planner CLI\n")
	if restored {
		fmt.Fprintf(c.out, "State: %s\n", c.env.State.Path())
	}
	if len(files) > 0 {
		fmt.Fprintf(c.out, "Input files:\n")
		for _, kind := range inputKinds {
			if path, ok := files[kind]; ok {
				fmt.Fprintf(c.out, "  %s: %s\n", kind, path)
			}
		}
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *OptimizeCommand) showHelp() {
	fmt.Fprint(c.out, `Coil Planner CLI - cut-to-length coil allocation and RM forecasting

USAGE:
    coilplan [optimize] -scenario <directory>           # Use scenario directory with CSV files
    coilplan [optimize] -coils <file> -orders <file> ... # Use individual CSV files
    coilplan serve [-addr :8080]                        # Serve the HTTP API

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -coils <file>       Path to coils CSV file
    -orders <file>      Path to orders CSV file
    -lines <file>       Path to lines CSV file
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv, xlsx, svg (default: text)
    -confirm            Confirm the proposed plan after optimizing
    -state <file>       JSON state file to restore from and save to
    -config <file>      Config file (default: coilplan.yaml in ./configs or .)
    -log-level <lvl>    Log level: debug, info, warn, error
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── coils.csv       # Coil inventory
    ├── orders.csv      # Customer orders
    └── lines.csv       # Cut-to-length lines

CSV FILE FORMATS (headers are case- and order-insensitive):

coils.csv:
    coilid,product,thickness,width,weight,grade
    HR-001,HR,2,1250,20,IS2062

orders.csv:
    orderid,product,thickness,width,length,quantity,grade,coilpacketweight,priority,duedate
    SO-1001,HR,2,1200,2500,100,IS2062,5,1,2025-03-01

lines.csv:
    name,minwidth,maxwidth,maxthickness,maxweight,speedmpm,cost
    CTL-1,600,1600,3,25,60,1200

EXAMPLES:
    # Plan a scenario and show the text report
    coilplan -scenario examples/mill -verbose

    # Plan, confirm, and keep the state for the next run
    coilplan -scenario examples/mill -confirm -state plan.json

    # Export the plan as a workbook
    coilplan -scenario examples/mill -format xlsx -output results/
`)
}
