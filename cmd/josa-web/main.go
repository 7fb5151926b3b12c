package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/josa"
	"github.com/jusunglee/josa/internal/health"
	"github.com/jusunglee/josa/internal/logger"
	"github.com/jusunglee/josa/internal/web"
	"github.com/jusunglee/josa/internal/web/middleware"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mainE(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE(ctx context.Context, args []string, stdout io.Writer) error {
	fs_ := ff.NewFlagSet("josa-web")

	var (
		port           = fs_.Int64Long("port", 3000, "HTTP server port")
		healthPort     = fs_.Int64Long("health-port", 3001, "health check server port")
		allowedOrigins = fs_.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins (empty allows any)")
		rateLimit      = fs_.Int64Long("rate-limit", 120, "requests allowed per client IP per window")
		rateWindow     = fs_.DurationLong("rate-window", time.Minute, "rate limit window")
		normalize      = fs_.BoolLong("normalize", "NFC-compose each noun before reading its last character")
		logLevel       = fs_.StringLong("log-level", "info", "log level: debug, info, warn, error")
		logFormat      = fs_.StringEnumLong("log-format", "log output format", "pretty", "json")
		_              = fs_.StringLong("config", "", "config file (optional)")
	)

	if err := ff.Parse(fs_, args,
		ff.WithEnvVarPrefix("JOSA"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(stdout, "%s\n", ffhelp.Flags(fs_))
		if errors.Is(err, ff.ErrHelp) {
			return err
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *rateLimit <= 0 {
		return fmt.Errorf("rate-limit must be positive, got %d", *rateLimit)
	}
	if *rateWindow <= 0 {
		return fmt.Errorf("rate-window must be positive, got %s", *rateWindow)
	}
	if *port == *healthPort {
		return fmt.Errorf("port and health-port must differ, both are %d", *port)
	}

	log := logger.New(logger.Options{Format: *logFormat, Level: *logLevel, Writer: stdout})
	slog.SetDefault(log)

	selector := josa.NewSelector(josa.WithNormalization(*normalize))
	limiter := middleware.NewRateLimiter(ctx, int(*rateLimit), *rateWindow)
	router := web.NewRouter(selector, log, limiter, splitOrigins(*allowedOrigins))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	healthSrv := health.New(int(*healthPort), selector)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", "port", *port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting health server", "port", *healthPort)
		return healthSrv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(
			srv.Shutdown(shutdownCtx),
			healthSrv.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
