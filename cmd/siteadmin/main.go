// Site content admin - manages artists, projects, events and images in the
// site repository through the contents API.
//
// Usage: go run ./cmd/siteadmin [-config config.yaml] <command> [args]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/content"
	"github.com/enki-verse/enkiverse-website/imaging"
)

const usage = `usage: siteadmin [flags] <command> [args]

commands:
  whoami                         show the authenticated user
  check                          check push access to the repository
  list <artists|projects|events> list items
  add-artist -name N [-bio B] [-website U] [-featured]
  add-project -title T [-description D]
  add-event -title T [-date D] [-location L] [-description D]
  delete <artists|projects|events> <id>
  upload-image [-base DIR] <file>...
`

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	envFile := flag.String("env", ".env", "Dotenv file holding the access token")
	verbose := flag.Bool("v", false, "Log API requests")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := content.NewClient(os.Getenv(cfg.Content.TokenEnv), content.OptionsFromConfig(cfg.Content))
	if !client.Enabled() {
		slog.Error("no access token", "env", cfg.Content.TokenEnv)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newAdmin(client, cfg, os.Stdout)
	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// newAdmin builds the command runner from the loaded config.
func newAdmin(client *content.Client, cfg *config.Config, out io.Writer) *admin {
	limits, opts := imaging.FromConfig(cfg.Images)
	return &admin{
		client:    client,
		prefix:    cfg.Content.CommitPrefix,
		dataDir:   cfg.Content.DataDir,
		imagesDir: cfg.Content.ImagesDir,
		limits:    limits,
		opts:      opts,
		out:       out,
		now:       time.Now,
	}
}
