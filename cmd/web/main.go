// Command web serves the local operator UI: upload a sales export, preview
// the cleaned data, and download the rendered dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"retailpulse/internal/app"
	"retailpulse/internal/config"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}

	return application.Run(context.Background())
}
