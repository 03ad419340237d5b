package main

import (
	"flag"
)

// globalFlagSet parses the flags that precede the sink subcommand,
// following __main__.py's argparse structure re-expressed with Go's
// flag package: flag.Parse stops at the first non-flag argument, which
// is exactly the subcommand boundary we want.
type globalFlagSet struct {
	fs *flag.FlagSet

	host, description, location, uri, uuid string
	manufacturer, model, serial, name      string
	port, sslPort                          int
	noSSL, noMDNS                          bool
	cert, key                              string
	configPath                             string
	logLevel, logFormat                    string
	verbose, showVersion                   bool

	subcommand string
	subArgs    []string
}

func newGlobalFlagSet() *globalFlagSet {
	g := &globalFlagSet{fs: flag.NewFlagSet("ippserver", flag.ContinueOnError)}

	g.fs.StringVar(&g.host, "H", "", "host to listen on")
	g.fs.StringVar(&g.host, "host", "", "host to listen on")
	g.fs.IntVar(&g.port, "p", 0, "IPP port")
	g.fs.IntVar(&g.port, "port", 0, "IPP port")
	g.fs.IntVar(&g.sslPort, "P", 0, "IPPS port")
	g.fs.IntVar(&g.sslPort, "ssl-port", 0, "IPPS port")
	g.fs.BoolVar(&g.noSSL, "no-ssl", false, "disable the HTTPS listener")
	g.fs.BoolVar(&g.noMDNS, "no-mdns", false, "disable mDNS advertisement")
	g.fs.StringVar(&g.cert, "cert", "", "TLS certificate path")
	g.fs.StringVar(&g.key, "key", "", "TLS key path")
	g.fs.StringVar(&g.name, "n", "", "printer name")
	g.fs.StringVar(&g.name, "name", "", "printer name")
	g.fs.StringVar(&g.description, "d", "", "printer description")
	g.fs.StringVar(&g.description, "description", "", "printer description")
	g.fs.StringVar(&g.location, "l", "", "printer location")
	g.fs.StringVar(&g.location, "location", "", "printer location")
	g.fs.StringVar(&g.uri, "i", "", "printer URI")
	g.fs.StringVar(&g.uri, "uri", "", "printer URI")
	g.fs.StringVar(&g.uuid, "u", "", "printer UUID")
	g.fs.StringVar(&g.uuid, "uuid", "", "printer UUID")
	g.fs.StringVar(&g.manufacturer, "manufacturer", "", "printer manufacturer")
	g.fs.StringVar(&g.model, "model", "", "printer model")
	g.fs.StringVar(&g.serial, "serial", "", "printer serial number")
	g.fs.StringVar(&g.configPath, "config", "", "YAML config file")
	g.fs.BoolVar(&g.verbose, "v", false, "verbose (debug) logging")
	g.fs.BoolVar(&g.verbose, "verbose", false, "verbose (debug) logging")
	g.fs.BoolVar(&g.showVersion, "version", false, "print version and exit")
	g.fs.StringVar(&g.logFormat, "log-format", "", "log format: console|json")

	return g
}

func (g *globalFlagSet) parse(args []string) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}
	rest := g.fs.Args()
	if len(rest) > 0 {
		g.subcommand = rest[0]
		g.subArgs = rest[1:]
	}
	return nil
}

func (g *globalFlagSet) applyOverrides(cfg *cliConfig) {
	if g.host != "" {
		cfg.Host = g.host
	}
	if g.port != 0 {
		cfg.Port = g.port
	}
	if g.sslPort != 0 {
		cfg.SSLPort = g.sslPort
	}
	if g.noSSL {
		cfg.NoSSL = true
	}
	if g.noMDNS {
		cfg.NoMDNS = true
	}
	if g.cert != "" {
		cfg.Cert = g.cert
	}
	if g.key != "" {
		cfg.Key = g.key
	}
	if g.name != "" {
		cfg.Name = g.name
	}
	if g.description != "" {
		cfg.Description = g.description
	}
	if g.location != "" {
		cfg.Location = g.location
	}
	if g.uri != "" {
		cfg.URI = g.uri
	}
	if g.uuid != "" {
		cfg.UUID = g.uuid
	}
	if g.manufacturer != "" {
		cfg.Manufacturer = g.manufacturer
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.serial != "" {
		cfg.Serial = g.serial
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}
	if g.verbose {
		cfg.LogLevel = "debug"
	}
}
