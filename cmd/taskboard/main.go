// Package main is the entry point for the taskboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"taskboard/internal/backend/rest"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Every request goes through the session credential.
	factory := func(cfg *config.Config, cred *session.Credential, logger *log.Logger) (service.Backend, error) {
		c, err := rest.New(cfg.BaseURL,
			rest.WithHTTPClient(cred.Client(nil)),
			rest.WithTimeout(cfg.Timeout),
			rest.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory,
		cli.WithInput(os.Stdin),
		cli.WithImportFactory(commands.GoogleImport),
	)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
