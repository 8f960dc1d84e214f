package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server configuration
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Content API configuration
	APIURL    string `long:"api-url" env:"API_URL" default:"http://localhost:8000" description:"Base URL of the Content API"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Content Automation Platform/1.0" description:"User agent string for Content API requests"`

	// Application configuration
	ConfigFile string `long:"config" env:"CONFIG_FILE" description:"Optional YAML configuration file overlay"`
	Timezone   string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for rendered timestamps (e.g., UTC, America/New_York)"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// Best-effort: a missing .env file is not an error
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:       raw.Port,
		APIURL:     raw.APIURL,
		UserAgent:  raw.UserAgent,
		ConfigFile: raw.ConfigFile,
		Timezone:   raw.Timezone,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if cfg.ConfigFile != "" {
		if err := applyFile(cfg, cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyFile(cfg *Cfg, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay fileCfg
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	cfg.Port = cmp.Or(overlay.Port, cfg.Port)
	cfg.APIURL = cmp.Or(overlay.APIURL, cfg.APIURL)
	cfg.UserAgent = cmp.Or(overlay.UserAgent, cfg.UserAgent)
	cfg.Timezone = cmp.Or(overlay.Timezone, cfg.Timezone)
	if overlay.Debug != nil {
		cfg.Debug = *overlay.Debug
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
