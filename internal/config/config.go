// Package config provides centralized configuration management for shipdash.
// Values come from an optional YAML file, then environment variables, then
// the defaults declared on each field. Everything is validated on startup so
// a bad setting fails before any input is read.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Report  ReportConfig  `yaml:"report"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// ReportConfig holds the aggregation rules.
type ReportConfig struct {
	// ExcludeTag is matched case-insensitively as a substring of the Tags field,
	// together with its "-ation" form for tokens ending in "e" (default: Quote)
	ExcludeTag string `yaml:"exclude_tag" env:"REPORT_EXCLUDE_TAG" default:"Quote"`

	// TopN bounds the top vehicles ranking (default: 10)
	TopN int `yaml:"top_n" env:"REPORT_TOP_N" default:"10"`

	// TopCustomers bounds the stacked customer charts (default: 10)
	TopCustomers int `yaml:"top_customers" env:"REPORT_TOP_CUSTOMERS" default:"10"`

	// SecondaryCustomer selects the customer category of the secondary table (default: CarMax)
	SecondaryCustomer string `yaml:"secondary_customer" env:"REPORT_SECONDARY_CUSTOMER" default:"CarMax"`

	// SecondaryStatus selects the vehicle status of the secondary table (default: New)
	SecondaryStatus string `yaml:"secondary_status" env:"REPORT_SECONDARY_STATUS" default:"New"`

	// DateLayouts are tried in order for Created Date; separated by ';'
	// because layouts may contain commas.
	DateLayouts []string `yaml:"date_layouts" env:"REPORT_DATE_LAYOUTS" sep:";" default:"1/2/2006 15:04;1/2/2006 3:04 PM;1/2/2006 3:04:05 PM;1/2/2006 15:04:05;1/2/2006;2006-01-02 15:04:05;2006-01-02T15:04:05Z07:00;2006-01-02 15:04;2006-01-02"`
}

// InputConfig holds source file locations.
type InputConfig struct {
	// Path is the main export; discovered from Dir when empty
	Path string `yaml:"path" env:"SHIPDASH_INPUT"`

	// SecondaryPath is the optional "EOD Update-2" export
	SecondaryPath string `yaml:"secondary_path" env:"SHIPDASH_SECONDARY"`

	// Dir is scanned for exports when Path is empty (default: .)
	Dir string `yaml:"dir" env:"SHIPDASH_INPUT_DIR" default:"."`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// Dir receives the generated files (default: .)
	Dir string `yaml:"dir" env:"SHIPDASH_OUT_DIR" default:"."`

	// Formats lists the renderers to run (default: html,xlsx,pdf)
	Formats []string `yaml:"formats" env:"SHIPDASH_FORMATS" default:"html,xlsx,pdf"`

	// Author is written into document metadata
	Author string `yaml:"author" env:"SHIPDASH_AUTHOR" default:"Shipment Reporting System"`

	// ChartScriptURL is the charting runtime referenced by the HTML page
	ChartScriptURL string `yaml:"chart_script_url" env:"SHIPDASH_CHART_SCRIPT_URL" default:"https://cdn.plot.ly/plotly-2.35.2.min.js"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `yaml:"host" env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `yaml:"port" env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// KnownFormats are the output formats the renderers provide.
var KnownFormats = []string{"html", "xlsx", "pdf"}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
