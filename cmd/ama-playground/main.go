// Command ama-playground is a local harness for the analytics recorder: it
// runs a sink server, drives simulated requests against it, redelivers the
// spool and scaffolds configuration files.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path (yaml, json, toml or jsonc)" default:"ama.yaml"`
	EnvFile string `name:"env-file" help:"Dotenv file loaded before the configuration" default:".env"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve    ServeCmd    `cmd:"" help:"Run a sink server that prints received batches"`
	Simulate SimulateCmd `cmd:"" help:"Drive one request lifecycle through the recorder"`
	Replay   ReplayCmd   `cmd:"" help:"Redeliver batches kept in the spool"`
	Init     InitCmd     `cmd:"" help:"Write a starter configuration file"`
}

// AfterApply runs after flag parsing; setup logging and the environment once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := godotenv.Load(c.EnvFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load env file", "path", c.EnvFile, "error", err)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ama-playground"),
		kong.Description("Playground for the voice analytics event recorder."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&Global{Logger: slog.Default()}, &cli)
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
