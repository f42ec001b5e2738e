package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = "canvasdocs.toml"

// CanvasConfig holds the LMS connection settings
type CanvasConfig struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	CourseID string `toml:"course-id"`
	PerPage  int    `toml:"per-page"`
	Timeout  string `toml:"timeout"`
}

// DefaultCanvasConfig returns placeholder connection settings
func DefaultCanvasConfig() CanvasConfig {
	return CanvasConfig{
		Endpoint: "https://canvas.example.edu",
		PerPage:  100,
		Timeout:  "30s",
	}
}

// OutputConfig contains export settings
type OutputConfig struct {
	Dir            string `toml:"dir"`
	TemplateDir    string `toml:"template-dir"`
	TemplateSuffix string `toml:"template-suffix"`
	Indent         int    `toml:"indent"`
	RelativeLinks  bool   `toml:"relative-links"`
}

// DefaultOutputConfig returns an output config with defaults
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:            "docs",
		TemplateDir:    "template",
		TemplateSuffix: ".hbs",
		Indent:         4,
	}
}

// LogConfig controls logging
type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the top-level configuration
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Canvas: DefaultCanvasConfig(),
		Output: DefaultOutputConfig(),
		Log:    LogConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a canvasdocs.toml file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromString(string(data))
}

// LoadFromString loads configuration from a TOML string
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.UpdateFromEnv()
	return cfg, nil
}

// legacyEnv maps the short variable names kept for existing setups
var legacyEnv = map[string]string{
	"API_ENDPOINT": "canvas.endpoint",
	"AUTH_TOKEN":   "canvas.token",
	"COURSE_ID":    "canvas.course-id",
	"OUTPUT_DIR":   "output.dir",
	"TEMPLATE_DIR": "output.template-dir",
}

// UpdateFromEnv updates config from environment variables.
// Variables starting with CANVASDOCS_ are used:
// CANVASDOCS_FOO_BAR -> foo-bar
// CANVASDOCS_FOO__BAR -> foo.bar
// The bare API_ENDPOINT, AUTH_TOKEN, COURSE_ID, OUTPUT_DIR and TEMPLATE_DIR
// variables are applied last and win.
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "CANVASDOCS_") {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "CANVASDOCS_")
		configKey := strings.ToLower(key)
		configKey = strings.ReplaceAll(configKey, "__", ".")
		configKey = strings.ReplaceAll(configKey, "_", "-")

		c.Set(configKey, parts[1])
	}

	for name, key := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			c.Set(key, v)
		}
	}
}

// Set sets a configuration value using dot notation (e.g., "canvas.token").
// Unknown keys are ignored.
func (c *Config) Set(key, value string) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return
	}

	switch parts[0] {
	case "canvas":
		c.setCanvasValue(parts[1], value)
	case "output":
		c.setOutputValue(parts[1], value)
	case "log":
		if parts[1] == "level" {
			c.Log.Level = value
		}
	}
}

func (c *Config) setCanvasValue(key, value string) {
	switch key {
	case "endpoint":
		c.Canvas.Endpoint = value
	case "token":
		c.Canvas.Token = value
	case "course-id":
		c.Canvas.CourseID = value
	case "per-page":
		if n, err := strconv.Atoi(value); err == nil {
			c.Canvas.PerPage = n
		}
	case "timeout":
		c.Canvas.Timeout = value
	}
}

func (c *Config) setOutputValue(key, value string) {
	switch key {
	case "dir":
		c.Output.Dir = value
	case "template-dir":
		c.Output.TemplateDir = value
	case "template-suffix":
		c.Output.TemplateSuffix = value
	case "indent":
		if n, err := strconv.Atoi(value); err == nil {
			c.Output.Indent = n
		}
	case "relative-links":
		c.Output.RelativeLinks = strings.ToLower(value) == "true"
	}
}

// RequestTimeout parses canvas.timeout, falling back to 30s
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Canvas.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate checks that everything a real export needs is present
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Endpoint == "" {
		errs = append(errs, errors.New("canvas.endpoint (API_ENDPOINT) is required"))
	}
	if c.Canvas.Token == "" {
		errs = append(errs, errors.New("canvas.token (AUTH_TOKEN) is required"))
	}
	if c.Canvas.CourseID == "" {
		errs = append(errs, errors.New("canvas.course-id (COURSE_ID) is required"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir (OUTPUT_DIR) is required"))
	}
	// Nested sidebar entries must stay list items, not indented code
	if c.Output.Indent < 2 || c.Output.Indent > 5 {
		errs = append(errs, fmt.Errorf("output.indent must be between 2 and 5, got %d", c.Output.Indent))
	}
	return errors.Join(errs...)
}

// TemplateVars returns the placeholders available to site templates
func (c *Config) TemplateVars(courseName string) map[string]interface{} {
	return map[string]interface{}{
		"course_name":  courseName,
		"course_id":    c.Canvas.CourseID,
		"api_endpoint": c.Canvas.Endpoint,
	}
}
