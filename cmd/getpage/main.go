package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/oggyb/pagecache/internal/cache/redis"
	"github.com/oggyb/pagecache/internal/config"
	"github.com/oggyb/pagecache/internal/fetch"
	applog "github.com/oggyb/pagecache/internal/log"
	"github.com/oggyb/pagecache/internal/service"
)

func main() {
	showCount := flag.Bool("count", false, "print the access count of the URL to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-count] <url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.New()
	applog.InitWithWriter(cfg.App.LogLevel, os.Stderr)

	if err := run(ctx, cfg, flag.Arg(0), *showCount, os.Stdout, os.Stderr); err != nil {
		log.WithError(err).Error("getpage failed")
		stop()
		os.Exit(1)
	}
}

// run fetches url through the cache, writing the body to stdout and,
// when showCount is set, the access count to stderr.
func run(ctx context.Context, cfg *config.Config, url string, showCount bool, stdout, stderr io.Writer) error {
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer store.Close()

	fetcher := fetch.NewHTTPClient(
		cfg.Fetch.Timeout,
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithLimiter(fetch.NewHostLimiter(cfg.Fetch.RateLimit, cfg.Fetch.RateBurst)),
	)

	pageSvc := service.NewPageService(
		store,
		fetcher,
		service.WithCacheTTL(cfg.Cache.PageTTL),
		service.WithCountTTL(cfg.Cache.CountTTL),
	)

	body, err := pageSvc.GetPage(ctx, url)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(stdout, body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	if showCount {
		n, err := pageSvc.AccessCount(ctx, url)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "count:%s = %d\n", url, n)
	}

	return nil
}
