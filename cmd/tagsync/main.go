// cmd/tagsync/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	stlog "log" // Used for fatal errors before the logger is ready
	"os"
	"os/signal"

	"github.com/bethropolis/tagsync/internal/app"
	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/lsp"
	"github.com/bethropolis/tagsync/internal/replay"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(flag.CommandLine)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}

	cfg, cfgErr := config.Load(*flags.ConfigFilePath, flags)

	// The TUI owns the terminal, so it logs to a file unless told otherwise.
	logPath := cfg.Logger.LogFilePath
	if logPath == "" && *flags.ReplayPath == "" && !*flags.LSP {
		logPath = config.DefaultLogFileName
	}
	output, closeLog, err := logger.OpenOutput(logPath)
	if err != nil {
		stlog.Fatalf("%v", err)
	}
	defer closeLog()
	logger.Init(cfg.Logger, output)

	logger.Infof("Starting %s %s", config.AppName, config.Version)
	if cfgErr != nil {
		logger.Warnf("Config file ignored: %v", cfgErr)
	}

	switch {
	case *flags.LSP:
		err = runLSP(cfg)
	case *flags.ReplayPath != "":
		err = runReplay(cfg, *flags.ReplayPath, args, *flags.OutputPath)
	default:
		err = runEditor(cfg, args)
	}
	if err != nil {
		logger.Errorf("%s exited with error: %v", config.AppName, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		closeLog()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

func runEditor(cfg *config.Config, files []string) error {
	a, err := app.New(cfg, files)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	return a.Run()
}

func runLSP(cfg *config.Config) error {
	server := lsp.NewServer(cfg)
	return server.RunStdio()
}

func runReplay(cfg *config.Config, scriptPath string, args []string, outPath string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s -replay script.yaml file [-o out]", config.AppName)
	}
	script, err := replay.LoadScript(scriptPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := replay.NewRunner(cfg).Run(ctx, script, args[0])
	if err != nil {
		return err
	}
	logger.Infof("Replay of %s: %d steps, %d renames", scriptPath, len(script.Steps), result.Renames)

	if outPath == "" {
		_, err = os.Stdout.WriteString(result.Text)
		return err
	}
	return os.WriteFile(outPath, []byte(result.Text), 0o644)
}
