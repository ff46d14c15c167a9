package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/nDmitry/titckfeed/internal/api/rest"
	"github.com/nDmitry/titckfeed/internal/app"
	"github.com/nDmitry/titckfeed/internal/cache"
	"github.com/nDmitry/titckfeed/internal/config"
	"github.com/nDmitry/titckfeed/internal/entity"
	"github.com/nDmitry/titckfeed/internal/feed"
	"github.com/nDmitry/titckfeed/internal/scraper"
)

type options struct {
	configPath string
	listingURL string
	outputPath string
	maxItems   int
	timeout    time.Duration
	verbose    bool
	serve      bool
}

func main() {
	logger := app.Logger()
	slog.SetDefault(logger)

	opts := parseFlags()

	if opts.verbose {
		app.SetLevel(slog.LevelDebug)
	}

	cfg, err := loadConfig(opts)

	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	if opts.serve {
		if err := serve(cfg); err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}

		return
	}

	if err := run(context.Background(), cfg); err != nil {
		logger.Error("Feed generation failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&opts.listingURL, "url", "", "Announcement listing page URL (default "+config.DefaultListingURL+")")
	flag.StringVar(&opts.listingURL, "u", "", "Shorthand for -url")
	flag.StringVar(&opts.outputPath, "output", "", "Output RSS file, - for stdout (default "+config.DefaultOutputPath+")")
	flag.StringVar(&opts.outputPath, "o", "", "Shorthand for -output")
	flag.IntVar(&opts.maxItems, "max-items", 0, fmt.Sprintf("Maximum number of announcements (default %d)", config.DefaultMaxItems))
	flag.IntVar(&opts.maxItems, "m", 0, "Shorthand for -max-items")
	flag.DurationVar(&opts.timeout, "timeout", 0, fmt.Sprintf("Per request timeout (default %s)", config.DefaultTimeout))
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the feed over HTTP instead of writing a file")
	flag.Parse()

	return opts
}

// loadConfig resolves defaults, the optional config file and flags, in that order.
func loadConfig(opts *options) (*entity.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		var err error

		if cfg, err = config.Read(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.listingURL != "" {
		// The channel keeps pointing at whatever listing is scraped.
		if cfg.Channel.Link == cfg.ListingURL {
			cfg.Channel.Link = opts.listingURL
		}

		cfg.ListingURL = opts.listingURL
	}

	if opts.outputPath != "" {
		cfg.OutputPath = opts.outputPath
	}

	if opts.maxItems != 0 {
		cfg.MaxItems = opts.maxItems
	}

	if opts.timeout != 0 {
		cfg.RequestTimeout = opts.timeout
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *entity.Config) error {
	logger := app.Logger()

	records, err := scraper.NewDefaultScraper(cfg).Scrape(ctx, cfg.ListingURL, cfg.MaxItems)

	if err != nil {
		if errors.Is(err, scraper.ErrNoLinks) {
			return fmt.Errorf("%w, the site layout may have changed", err)
		}

		return err
	}

	content, err := feed.Generate(&cfg.Channel, records, time.Now())

	if err != nil {
		return err
	}

	if err := save(content, cfg.OutputPath); err != nil {
		return fmt.Errorf("could not save the feed to %s: %w", cfg.OutputPath, err)
	}

	logger.Info("RSS feed generated", "output", cfg.OutputPath, "items", len(records))

	return nil
}

func save(content []byte, outPath string) error {
	if outPath == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(outPath, content, 0o644)
}

func serve(cfg *entity.Config) error {
	logger := app.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, starting graceful shutdown...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	port := os.Getenv("HTTP_SERVER_PORT")

	if port == "" {
		port = "8080"
	}

	redisHost := os.Getenv("REDIS_HOST")

	if redisHost == "" {
		redisHost = "redis"
	}

	redisClient, err := cache.NewRedisClient(ctx, fmt.Sprintf("%s:6379", redisHost), os.Getenv("REDIS_PASSWORD"))

	if err != nil {
		return err
	}

	defer redisClient.Close()

	server := rest.NewServer(redisClient, scraper.NewDefaultScraper(cfg), &feed.Generator{}, cfg, port)

	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("Server exited gracefully")

	return nil
}
