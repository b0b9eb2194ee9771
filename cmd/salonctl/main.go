package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/logger"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
)

func main() {
	cliApp := &cli.App{
		Name:  "salonctl",
		Usage: "Run salon calendar sync and reminder jobs.",
		Commands: []*cli.Command{
			authCommand(),
			syncCommand(),
			remindCommand(),
			fixDataCommand(),
			workerCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withApp loads config, builds the container and closes it after fn.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := fn(ctx, a)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Close(closeCtx)

	return runErr
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// skipWhenLocked turns a held job lock into a clean exit.
func skipWhenLocked(a *app.App, job string, err error) error {
	if errors.Is(err, lock.ErrLocked) {
		a.Logger.Info("job already running, skipping", zap.String("job", job))
		return nil
	}
	return err
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize Google Calendar access and store the token at GOOGLE_TOKEN_PATH.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Calendar.TokenPath == "" {
				return fmt.Errorf("GOOGLE_TOKEN_PATH is not set")
			}

			oc, err := calendar.OAuthConfig(cfg.Calendar)
			if err != nil {
				return err
			}

			fmt.Printf("Open this link in your browser. After consent the browser lands on %s;\n"+
				"paste that full address (or just the code) below.\n%s\n\nCode or URL: ",
				oc.RedirectURL, calendar.AuthCodeURL(oc))

			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			code, err := calendar.CodeFromInput(line)
			if err != nil {
				return err
			}

			tok, err := calendar.ExchangeCode(c.Context, oc, code)
			if err != nil {
				return err
			}

			if err := calendar.SaveToken(cfg.Calendar.TokenPath, tok); err != nil {
				return err
			}

			fmt.Println("Token saved to", cfg.Calendar.TokenPath)
			return nil
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Import calendar events into appointments once.",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				res, err := a.Sync.Execute(ctx)
				if err != nil {
					return skipWhenLocked(a, "sync", err)
				}
				return printJSON(res)
			})
		},
	}
}

func remindCommand() *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Send the reminders that are due now.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "List who would be messaged without sending."},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				res, err := a.Reminders.Execute(ctx, c.Bool("dry-run"))
				if errors.Is(err, messaging.ErrNotConfigured) {
					return fmt.Errorf("%w: set WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID or use --dry-run", err)
				}
				if err != nil {
					return skipWhenLocked(a, "reminders", err)
				}
				return printJSON(res)
			})
		},
	}
}

func fixDataCommand() *cli.Command {
	return &cli.Command{
		Name:  "fix-data",
		Usage: "Link appointments whose service still holds a client name.",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				fixed, err := a.FixData.Execute(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Fixed %d appointment(s)\n", fixed)
				return nil
			})
		},
	}
}

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Run sync and reminders on their intervals until interrupted.",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				jobs := a.Workers()
				jobs.Start()

				<-ctx.Done()
				jobs.Stop()
				return nil
			})
		},
	}
}
