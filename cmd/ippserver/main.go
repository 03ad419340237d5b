package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/h2g2bob/ippserver/internal/config"
	"github.com/h2g2bob/ippserver/internal/convert"
	"github.com/h2g2bob/ippserver/internal/dispatch"
	"github.com/h2g2bob/ippserver/internal/job"
	"github.com/h2g2bob/ippserver/internal/mdns"
	"github.com/h2g2bob/ippserver/internal/ppd"
	"github.com/h2g2bob/ippserver/internal/printer"
	"github.com/h2g2bob/ippserver/internal/sink"
	"github.com/h2g2bob/ippserver/internal/transport"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "unknown"
)

// cliConfig is the fully-merged (file, then flag-override) set of
// settings this server runs with, following the teacher's ConfigFile
// layering pattern in cmd/airprint-bridge/main.go.
type cliConfig struct {
	Host, Description, Location, URI, UUID        string
	Manufacturer, Model, Serial, Name             string
	Port, SSLPort                                 int
	NoSSL, NoMDNS                                  bool
	Cert, Key                                      string
	LogLevel, LogFormat                            string
}

func main() {
	fs := newGlobalFlagSet()
	if err := fs.parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if fs.showVersion {
		fmt.Printf("ippserver version %s (commit %s)\n", version, commit)
		os.Exit(0)
	}

	cfg := defaultConfig()
	if fs.configPath != "" {
		if file, err := config.Load(fs.configPath); err == nil {
			applyFileConfig(&cfg, file)
		} else if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: failed to load config file: %v\n", err)
		}
	}
	fs.applyOverrides(&cfg)

	log := newLogger(cfg.LogLevel, cfg.LogFormat)

	if fs.subcommand == "" {
		fmt.Fprintf(os.Stderr, "usage: ippserver [flags] <save|run|saveandrun|reject|pc2paper|load> [args...]\n")
		os.Exit(1)
	}

	s, err := sink.FromArgs(fs.subcommand, fs.subArgs)
	if err != nil {
		log.Error().Err(err).Msg("failed to configure sink")
		os.Exit(1)
	}

	p := newPrinter(cfg)

	jobs := job.NewManager()
	processor := job.NewProcessor(s, 4, 32, log)
	processor.SetConverter(convert.ToPDF)

	d := &dispatch.Dispatcher{Printer: p, Jobs: jobs, Processor: processor, Log: log}

	srv := transport.New(
		fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("%s:%d", cfg.Host, cfg.SSLPort),
		cfg.Cert, cfg.Key, d, log,
	)
	srv.PPD = func() []byte { return ppd.Generate(p) }
	if cfg.NoSSL {
		srv.SSLEnabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go processor.Start(ctx)

	if !cfg.NoMDNS {
		adv, err := mdns.NewAdvertiser(serviceInfo(cfg, p, srv.SSLEnabled), log)
		if err != nil {
			log.Warn().Err(err).Msg("mDNS advertiser failed to start, continuing without it")
		} else {
			go adv.Run(ctx)
			defer adv.Close()
		}
	}

	log.Info().Str("name", p.Name).Msg("ippserver starting")
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func defaultConfig() cliConfig {
	return cliConfig{
		Host: "0.0.0.0", Port: 631, SSLPort: 443,
		Name: "Virtual Printer", Description: "Virtual IPP Printer",
		Manufacturer: "Generic", Model: "IPP Everywhere",
		UUID:      uuid.NewString(),
		LogLevel:  "info", LogFormat: "console",
	}
}

func applyFileConfig(cfg *cliConfig, f *config.File) {
	if f.Printer.Name != "" {
		cfg.Name = f.Printer.Name
	}
	if f.Printer.Description != "" {
		cfg.Description = f.Printer.Description
	}
	if f.Printer.Location != "" {
		cfg.Location = f.Printer.Location
	}
	if f.Printer.UUID != "" {
		cfg.UUID = f.Printer.UUID
	}
	if f.Printer.Manufacturer != "" {
		cfg.Manufacturer = f.Printer.Manufacturer
	}
	if f.Printer.Model != "" {
		cfg.Model = f.Printer.Model
	}
	if f.Printer.Serial != "" {
		cfg.Serial = f.Printer.Serial
	}
	if f.Network.Host != "" {
		cfg.Host = f.Network.Host
	}
	if f.Network.Port != 0 {
		cfg.Port = f.Network.Port
	}
	if f.Network.SSLPort != 0 {
		cfg.SSLPort = f.Network.SSLPort
	}
	cfg.NoSSL = f.Network.NoSSL
	cfg.NoMDNS = f.Network.NoMDNS
	if f.Network.Cert != "" {
		cfg.Cert = f.Network.Cert
	}
	if f.Network.Key != "" {
		cfg.Key = f.Network.Key
	}
	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	if f.Log.Format != "" {
		cfg.LogFormat = f.Log.Format
	}
}

func newPrinter(cfg cliConfig) *printer.Printer {
	uri := cfg.URI
	if uri == "" {
		uri = fmt.Sprintf("ipp://%s:%d/ipp/print", localIP(), cfg.Port)
	}
	return &printer.Printer{
		Name: cfg.Name, Description: cfg.Description, Location: cfg.Location,
		URI: uri, UUID: cfg.UUID, Manufacturer: cfg.Manufacturer, Model: cfg.Model,
		Serial: cfg.Serial, ColorSupported: true, DuplexSupported: true,
		StartedAt: time.Now(),
	}
}

func serviceInfo(cfg cliConfig, p *printer.Printer, httpsAvailable bool) mdns.ServiceInfo {
	var ip [4]byte
	copy(ip[:], net.ParseIP(localIP()).To4())
	return mdns.ServiceInfo{
		Name:            p.Name,
		Hostname:        mdns.SanitizeHostname(p.Name),
		IP:              ip,
		Port:            cfg.Port,
		SSLPort:         cfg.SSLPort,
		HTTPSAvailable:  httpsAvailable,
		UUID:            p.UUID,
		Manufacturer:    p.Manufacturer,
		Model:           p.Model,
		Serial:          p.Serial,
		Location:        p.Location,
		DocumentFormats: printer.DocumentFormatsSupported,
	}
}

// localIP returns the first non-loopback IPv4 address, matching the
// teacher's daemon.getLocalIP.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return "127.0.0.1"
}

func newLogger(level, format string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))
	if format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: !useColor}).
		With().Timestamp().Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
