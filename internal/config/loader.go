package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at an optional YAML file.
const FileEnv = "SHIPDASH_CONFIG"

// Load builds the configuration from field defaults, the YAML file named by
// SHIPDASH_CONFIG (if any) and environment variables, and validates it.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
// Precedence: environment > file > default. Defaults are applied before the
// file is decoded, so a zero the file sets explicitly (read_timeout: 0s) is
// kept rather than replaced by the default.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	root := reflect.ValueOf(cfg).Elem()

	if err := applyTags(root, defaultValue); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config load: file %s not found", path)
			}
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config load: parse %s: %w", path, err)
		}
	}

	if err := applyTags(root, envValue); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// valueSource returns the raw value for a tagged field, or "" to leave the
// field as it is.
type valueSource func(field reflect.StructField) string

func defaultValue(field reflect.StructField) string {
	return field.Tag.Get("default")
}

func envValue(field reflect.StructField) string {
	return os.Getenv(field.Tag.Get("env"))
}

// applyTags recursively sets every field carrying an env tag from source.
func applyTags(v reflect.Value, source valueSource) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := applyTags(fieldVal, source); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := source(field)
		if value == "" {
			continue
		}

		sep := field.Tag.Get("sep")
		if sep == "" {
			sep = ","
		}
		if err := setField(fieldVal, value, sep); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value, sep string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(SplitList(value, sep)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// SplitList splits value on sep, trimming whitespace and dropping empties.
func SplitList(value, sep string) []string {
	parts := strings.Split(value, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Report validation
	if strings.TrimSpace(c.Report.ExcludeTag) == "" {
		errs = append(errs, "REPORT_EXCLUDE_TAG must not be empty")
	}
	if c.Report.TopN <= 0 {
		errs = append(errs, fmt.Sprintf("REPORT_TOP_N (%d) must be positive", c.Report.TopN))
	}
	if c.Report.TopCustomers <= 0 {
		errs = append(errs, fmt.Sprintf("REPORT_TOP_CUSTOMERS (%d) must be positive", c.Report.TopCustomers))
	}
	if len(c.Report.DateLayouts) == 0 {
		errs = append(errs, "REPORT_DATE_LAYOUTS must list at least one layout")
	}

	// Output validation
	if len(c.Output.Formats) == 0 {
		errs = append(errs, "SHIPDASH_FORMATS must list at least one format")
	}
	for _, f := range c.Output.Formats {
		if !isKnownFormat(f) {
			errs = append(errs, fmt.Sprintf("SHIPDASH_FORMATS entry %q must be one of: %s",
				f, strings.Join(KnownFormats, ", ")))
		}
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func isKnownFormat(f string) bool {
	for _, k := range KnownFormats {
		if strings.EqualFold(k, f) {
			return true
		}
	}
	return false
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Report: {ExcludeTag: %q, TopN: %d, TopCustomers: %d, Secondary: %q/%q}, ",
		c.Report.ExcludeTag, c.Report.TopN, c.Report.TopCustomers,
		c.Report.SecondaryCustomer, c.Report.SecondaryStatus)
	fmt.Fprintf(&b, "Input: {Path: %q, SecondaryPath: %q, Dir: %q}, ",
		c.Input.Path, c.Input.SecondaryPath, c.Input.Dir)
	fmt.Fprintf(&b, "Output: {Dir: %q, Formats: %v}, ", c.Output.Dir, c.Output.Formats)
	fmt.Fprintf(&b, "Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
