package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/notihub/notihub/internal/config"
	"github.com/notihub/notihub/internal/hub"
	"github.com/notihub/notihub/internal/logging"
	"github.com/notihub/notihub/internal/metrics"
	"github.com/notihub/notihub/internal/setup"
)

func main() {
	cfgFile := flag.String("config", "", "Path to config file")
	channel := flag.String("channel", "", "channel to dispatch on (email, sms, push, ...)")
	message := flag.String("message", "", "message to dispatch")
	demo := flag.Bool("demo", false, "dispatch the order-lifecycle demo on email, sms and push")
	list := flag.Bool("list", false, "print the registered channels and exit")
	logLevel := flag.String("log-level", "", "override log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := loadConfig(*cfgFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	// CLI flags have highest precedence (override env/file/defaults)
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *demo && len(cfg.Subscribers) == 0 {
		cfg.Subscribers = setup.DemoSubscribers()
	}

	cleanupLog, err := logging.Init(os.Stderr, cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanupLog()

	h, cleanupHub, err := setup.Build(cfg, os.Stdout)
	if err != nil {
		logging.Get().Fatal().Err(err).Msg("failed to build hub")
	}
	defer cleanupHub()

	if *list {
		fmt.Println(strings.Join(h.Channels(), "\n"))
		return
	}

	reqs, err := requests(*demo, *channel, *message)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	stopMetrics := startMetrics(ctx, cfg)

	failed := runDispatches(ctx, h, reqs, os.Stderr)

	if cfg.MetricsEnabled {
		logging.Get().Info().Msg("dispatch finished; serving metrics until interrupted")
		<-ctx.Done()
	}
	stop()
	stopMetrics()

	if failed > 0 {
		cleanupHub()
		cleanupLog()
		os.Exit(1)
	}
}

// loadConfig applies defaults, then the file, then env overrides
func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		c, err := config.LoadConfigFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed loading config: %w", err)
		}
		cfg = c
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return cfg, nil
}

// requests turns the CLI flags into the list of dispatches to run
func requests(demo bool, channel, message string) ([]setup.DemoMessage, error) {
	if demo {
		return setup.DemoMessages(), nil
	}
	if channel == "" || message == "" {
		return nil, errors.New("either -demo or both -channel and -message are required")
	}
	return []setup.DemoMessage{{Channel: channel, Message: message}}, nil
}

// runDispatches dispatches each request in order and reports failures to
// errOut. It returns the number of failed dispatches.
func runDispatches(ctx context.Context, h *hub.Hub, reqs []setup.DemoMessage, errOut io.Writer) int {
	failed := 0
	for _, r := range reqs {
		res := h.Dispatch(ctx, r.Channel, r.Message)
		if !res.OK {
			failed++
			fmt.Fprintf(errOut, "%v\n", res.Err)
		}
	}
	return failed
}

// startMetrics starts the optional metrics server and Influx pusher. The
// returned func shuts the server down and waits for the final Influx push.
func startMetrics(ctx context.Context, cfg *config.Config) func() {
	var srv *http.Server
	if cfg.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.PromHandler())
		mux.Handle("/status", metrics.JSONHandler())
		srv = &http.Server{Addr: fmt.Sprintf(":%d", cfg.MetricsPort), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logging.Get().Info().Str("addr", srv.Addr).Msg("starting metrics server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Get().Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	influxCtx, cancelInflux := context.WithCancel(ctx)
	influxDone := make(chan struct{})
	go func() {
		defer close(influxDone)
		metrics.StartInfluxPusher(influxCtx, cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket, cfg.InfluxInterval)
	}()

	return func() {
		cancelInflux()
		<-influxDone
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}
	}
}
