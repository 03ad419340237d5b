// Package config loads the printer's YAML configuration file;
// cmd/ippserver layers command-line flags over it, following the
// teacher's file-then-flag-override pattern.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration structure. Every field is
// optional: the CLI's flag defaults already cover the non-file case,
// and a zero value here means "don't override".
type File struct {
	Printer struct {
		Name         string `yaml:"name"`
		Description  string `yaml:"description"`
		Location     string `yaml:"location"`
		UUID         string `yaml:"uuid"`
		Manufacturer string `yaml:"manufacturer"`
		Model        string `yaml:"model"`
		Serial       string `yaml:"serial"`
	} `yaml:"printer"`

	Network struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		SSLPort int    `yaml:"ssl_port"`
		NoSSL   bool   `yaml:"no_ssl"`
		NoMDNS  bool   `yaml:"no_mdns"`
		Cert    string `yaml:"cert"`
		Key     string `yaml:"key"`
	} `yaml:"network"`

	Sink struct {
		Kind    string   `yaml:"kind"` // save, run, saveandrun, reject, pc2paper
		Dir     string   `yaml:"dir"`
		Command []string `yaml:"command"`
		UseEnv  bool     `yaml:"use_env"`
		Config  string   `yaml:"config"` // pc2paper config file path
	} `yaml:"sink"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads and parses a YAML config file. A missing file is not an
// error the caller must special-case differently than any other read
// failure — os.IsNotExist(err) lets callers decide whether to warn.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}
