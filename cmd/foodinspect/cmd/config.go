package cmd

import (
	"errors"
	"fmt"
	"foodinspect/internal/classify"
	"foodinspect/pkg/configutil"
	"log/slog"
	"os"
)

const (
	envGeocodeApiKey = "GOOGLE_MAPS_API_KEY"
	envSheetsToken   = "GOOGLE_SHEETS_TOKEN"
	envCaptchaToken  = "REPORT_CAPTCHA_TOKEN"
)

type ScheduleConfig struct {
	// Cron is a standard 5 field cron expression evaluated in report time.
	Cron string `json:"cron"`
}

type Config struct {
	Report   ReportConfig    `json:"report"`
	Classify classify.Params `json:"classify"`
	Geocode  GeocodeConfig   `json:"geocode"`
	Sinks    SinksConfig     `json:"sinks"`
	Archive  ArchiveConfig   `json:"archive"`
	Schedule ScheduleConfig  `json:"schedule"`
	// HttpDumpDir receives the full text of every HTTP exchange when set.
	HttpDumpDir string `json:"http_dump_dir"`
}

func DefaultConfig() Config {
	return Config{
		Report:   DefaultReportConfig(),
		Classify: classify.DefaultParams(),
		Geocode:  DefaultGeocodeConfig(),
		Sinks:    DefaultSinksConfig(),
		Archive:  DefaultArchiveConfig(),
		Schedule: ScheduleConfig{
			// fridays, the week's report is complete by then
			Cron: "0 6 * * 5",
		},
	}
}

// applyEnv overrides secrets with their environment variables when set.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(envGeocodeApiKey); v != "" {
		c.Geocode.Google.ApiKey = v
	}
	if v := getenv(envSheetsToken); v != "" {
		c.Sinks.Sheets.Token = v
	}
	if v := getenv(envCaptchaToken); v != "" {
		c.Report.Session.CaptchaToken = v
	}
}

func (c Config) validate() error {
	if c.Report.Markup.BaseURL == "" {
		return fmt.Errorf("report.markup.base_url is empty")
	}
	if c.Classify.Threshold <= 0 {
		return fmt.Errorf("classify.threshold must be positive, got %d", c.Classify.Threshold)
	}
	if c.Sinks.Email.Addr != "" && len(c.Sinks.Email.To) == 0 {
		return fmt.Errorf("sinks.email has no recipients")
	}
	return nil
}

func readConfig(path string, getenv func(string) string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err = configutil.WithDefaults(cfg, DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("merge defaults: %w", err)
	}
	cfg.applyEnv(getenv)

	err = cfg.validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the config at path (and its .local override), fills in
// defaults and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	return readConfig(path, os.Getenv)
}
