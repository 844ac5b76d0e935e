package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vsinha/coilplan/pkg/infrastructure/config"
	"github.com/vsinha/coilplan/pkg/infrastructure/logging"
	"github.com/vsinha/coilplan/pkg/interfaces/cli/commands"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// .env is optional
	_ = godotenv.Load()

	subcommand := "optimize"
	if len(args) > 0 && (args[0] == "optimize" || args[0] == "serve") {
		subcommand, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("coilplan "+subcommand, flag.ExitOnError)
	var (
		configFile = fs.String("config", "", "Config file (default: coilplan.yaml in ./configs or .)")
		logLevel   = fs.String("log-level", "", "Log level: debug, info, warn, error")
		stateFile  = fs.String("state", "", "JSON state file to restore from and save to")
	)

	var (
		cmdConfig commands.Config
		addr      string
	)
	switch subcommand {
	case "serve":
		fs.StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	default:
		fs.StringVar(&cmdConfig.ScenarioDir, "scenario", "", "Path to scenario directory containing CSV files")
		fs.StringVar(&cmdConfig.CoilsFile, "coils", "", "Path to coils CSV file")
		fs.StringVar(&cmdConfig.OrdersFile, "orders", "", "Path to orders CSV file")
		fs.StringVar(&cmdConfig.LinesFile, "lines", "", "Path to lines CSV file")
		fs.StringVar(&cmdConfig.OutputDir, "output", "", "Output directory for results (optional)")
		fs.StringVar(&cmdConfig.Format, "format", "text", "Output format: text, json, csv, xlsx, svg")
		fs.BoolVar(&cmdConfig.Confirm, "confirm", false, "Confirm the proposed plan after optimizing")
		fs.BoolVar(&cmdConfig.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&cmdConfig.Help, "help", false, "Show help message")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *stateFile != "" {
		cfg.State.File = *stateFile
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	env, err := commands.NewEnvironment(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if subcommand == "serve" {
		return commands.NewServeCommand(env).Execute(ctx)
	}
	return commands.NewOptimizeCommand(cmdConfig, env, os.Stdout).Execute(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
