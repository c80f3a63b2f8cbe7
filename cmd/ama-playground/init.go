package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ama "github.com/Tap30/ripple-ama"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing configuration file"`
	AppID string `name:"app-id" help:"Analytics application id" default:"replace-me"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Printf("Writing configuration to %s\n", root.Config)
	return writeStarterConfig(root.Config, i.AppID, i.Force)
}

func starterConfig(appID string) ama.Config {
	return ama.Config{
		AppID:          appID,
		AppTitle:       "My Skill",
		AppVersionName: "1.0.0",
		AppVersionCode: "1",
		Platform:       "alexa",
		Region:         ama.DefaultRegion,
		Endpoint:       "http://localhost:3000/events",
		InitialState:   ama.DefaultInitialState,
		IgnoreUsers:    []string{},
		Timeout:        10 * time.Second,
		Spool:          ama.SpoolConfig{Driver: ama.SpoolFile, Path: "ama-spool.json"},
	}
}

func writeStarterConfig(path, appID string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	data, err := yaml.Marshal(starterConfig(appID))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
