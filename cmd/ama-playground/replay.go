package main

import (
	"context"
	"errors"

	ama "github.com/Tap30/ripple-ama"
	"github.com/Tap30/ripple-ama/adapters"
)

// ReplayCmd implements the 'replay' command.
type ReplayCmd struct {
	Endpoint string `help:"Override the configured endpoint"`
}

func (r *ReplayCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if cfg.Spool.Driver == ama.SpoolNone {
		return errors.New("no spool configured, set spool.driver to file or sqlite")
	}
	if r.Endpoint != "" {
		cfg.Endpoint = r.Endpoint
	}

	p, err := ama.New(cfg, ama.WithLogger(adapters.NewSlogLoggerAdapter(g.Logger)))
	if err != nil {
		return err
	}
	defer p.Close()

	delivered, err := p.Redeliver(context.Background())
	g.Logger.Info("Replay finished", "delivered", delivered, "spool", cfg.Spool.Path)
	return err
}
