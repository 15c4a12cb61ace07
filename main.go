package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/jiratools/jira-mcp/internal/client"
	"github.com/jiratools/jira-mcp/internal/config"
	"github.com/jiratools/jira-mcp/internal/mcp"
	"github.com/jiratools/jira-mcp/internal/registry"
)

var (
	transport string
	addr      string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flag.StringVar(&transport, "transport", "stdio", "Transport to serve on: stdio or sse")
	flag.StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address for the SSE transport")
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  jira-mcp - Serve Jira tools over the Model Context Protocol")
		fmt.Fprintln(w, "  jira-mcp configure <server-url> <token> - Store the access token in the OS keyring")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	// stdout carries the stdio transport, so logs go to stderr.
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := run(ctx, log, flag.Args()); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, args []string) error {
	if len(args) > 0 && args[0] == "configure" {
		if len(args) < 3 {
			return fmt.Errorf("usage: jira-mcp configure <server-url> <token>")
		}
		if err := config.SaveToken(args[1], args[2]); err != nil {
			return err
		}
		log.Info().Str("server", args[1]).Msg("token stored")
		return nil
	}

	cfg := config.FromEnv()
	if cfg.AccessToken == "" && cfg.ServerURL != "" {
		if token, err := config.LoadToken(cfg.ServerURL); err == nil {
			cfg.AccessToken = token
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg := registry.New(cfg.Teams, cfg.ComponentAliases)

	jc, err := client.New(cfg, reg, log)
	if err != nil {
		return err
	}
	if err := jc.Connect(ctx); err != nil {
		return err
	}

	srv := mcp.New(jc, reg, log).MCPServer()

	switch transport {
	case "sse":
		log.Info().Str("addr", addr).Msg("serving SSE transport")
		return server.NewSSEServer(srv).Start(addr)
	case "stdio":
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown transport: %s", transport)
	}
}
