package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or roll back the MySQL schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					cfg, log, err := bootstrap()
					if err != nil {
						return err
					}
					db, err := database.Open(cfg.DB)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := database.MigrateUp(db); err != nil {
						return err
					}
					log.Info("migrations applied")
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					cfg, log, err := bootstrap()
					if err != nil {
						return err
					}
					db, err := database.Open(cfg.DB)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := database.MigrateDown(db, c.Int("steps")); err != nil {
						return err
					}
					log.WithField("steps", c.Int("steps")).Info("migrations rolled back")
					return nil
				},
			},
		},
	}
}

func kitchenDisplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "kitchen-display",
		Usage: "consume kitchen tickets and append them to a log file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Value: "logs/kitchen.log", Usage: "ticket log path"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = queue.NewKitchenDisplay(cfg.RabbitMQURL, c.String("log-file"), log).Run(ctx)
			if ctx.Err() != nil {
				log.Info("kitchen display stopped")
				return nil
			}
			return err
		},
	}
}

func issueTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "sign a staff access token for the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "staff", Required: true, Usage: "staff id placed in the sub claim"},
			&cli.StringFlag{Name: "role", Value: middleware.RoleStaff, Usage: "STAFF, MANAGER or ADMIN"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to ACCESS_TOKEN_TTL_MIN"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			role := strings.ToUpper(c.String("role"))
			switch role {
			case middleware.RoleStaff, middleware.RoleManager, middleware.RoleAdmin:
			default:
				return errors.Errorf("unknown role %q", role)
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = time.Duration(cfg.AccessTTLMin) * time.Minute
			}
			tok, err := utils.NewAccessToken(cfg.JWTSecret, c.String("staff"), role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok.Token)
			return nil
		},
	}
}
