package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"napd/internal/backend"
	"napd/internal/config"
	"napd/internal/httpapi"
	"napd/internal/power"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":7979"
	if v := os.Getenv("NAPD_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :7979")
	configPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml)")
	backendName := flag.String("backend", "auto", "Platform backend: auto|sim")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	logFormat := flag.String("log-format", "console", "Log format: console|json")
	corsEnabled := flag.Bool("cors-enabled", false, "Enable CORS middleware")
	corsOrigins := flag.String("cors-origins", "*", "Comma-separated allowed CORS origins")
	eventQueue := flag.Int("event-queue", 0, "Raw event queue size (0=default)")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	cfg := config.Config{
		Addr:           *addr,
		Backend:        *backendName,
		LogLevel:       *logLevel,
		EventQueueSize: *eventQueue,
		CORSEnabled:    *corsEnabled,
		CORSOrigins:    splitCSV(*corsOrigins),
	}
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			fatalf("failed to load config %s: %v", *configPath, err)
		}
		cfg = mergeConfig(fileCfg, cfg, setFlags)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		fatalf("failed to apply env config: %v", err)
	}

	log := newLogger(cfg.LogLevel, *logFormat)

	var bk backend.Backend
	switch cfg.Backend {
	case "", "auto":
		bk = backend.New()
	case "sim":
		bk = backend.NewMemory()
	default:
		fatalf("unknown backend %q (want auto or sim)", cfg.Backend)
	}

	mgr := power.NewWithConfig(power.Config{
		Backend:        bk,
		EventQueueSize: cfg.EventQueueSize,
		Publisher: power.MultiPublisher{
			httpapi.LogPublisher{Log: log},
			httpapi.MetricsPublisher{},
		},
	})

	httpapi.SetLogger(log)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{"GET", "POST", "DELETE"}, []string{"Content-Type"})
	if cfg.MaxBodyBytes > 0 {
		httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", mgr.BackendName()).Msg("napd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase() // terminate open event streams
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	// Close detaches the observer and releases every outstanding assertion.
	if err := mgr.Close(); err != nil {
		log.Warn().Err(err).Msg("backend release failed during shutdown")
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if format == "json" {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log.Level(lvl).With().Timestamp().Logger()
}

// mergeConfig overlays flag values onto the file config. A flag wins only
// when it was set on the command line (flag defaults must not shadow file
// values); fields the file leaves empty fall back to the flag value.
func mergeConfig(file, flags config.Config, set map[string]bool) config.Config {
	out := file
	if set["addr"] || out.Addr == "" {
		out.Addr = flags.Addr
	}
	if set["backend"] || out.Backend == "" {
		out.Backend = flags.Backend
	}
	if set["log-level"] || out.LogLevel == "" {
		out.LogLevel = flags.LogLevel
	}
	if set["event-queue"] || out.EventQueueSize == 0 {
		out.EventQueueSize = flags.EventQueueSize
	}
	if set["cors-enabled"] {
		out.CORSEnabled = flags.CORSEnabled
	}
	if set["cors-origins"] || len(out.CORSOrigins) == 0 {
		out.CORSOrigins = flags.CORSOrigins
	}
	return out
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Fatal().Msgf(format, args...)
}
