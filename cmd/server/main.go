// Command server runs the restaurant POS order service and its
// maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "restaurant-pos",
		Usage: "order lifecycle service for restaurant point of sale",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			kitchenDisplayCommand(),
			issueTokenCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every
// command.
func bootstrap() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(cfg.Log)
	log.WithFields(logrus.Fields{"env": cfg.Env, "store": cfg.StoreDriver}).Debug("configuration loaded")
	return cfg, log, nil
}
