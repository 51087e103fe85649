package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/nsh/core/history"
	"github.com/josephlewis42/nsh/core/shell"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt string `json:"prompt" validate:"required"`
	Color  string `json:"color" validate:"oneof=always auto never"`

	HistorySize   int `json:"history_size" validate:"gte=1,lte=100000"`
	MaxLineLength int `json:"max_line_length" validate:"gte=1"`
	MaxTokens     int `json:"max_tokens" validate:"gte=1"`

	EventLog string `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Limits gets the input line limits.
func (c *Configuration) Limits() shell.Limits {
	return shell.Limits{
		MaxLineLength: c.MaxLineLength,
		MaxTokens:     c.MaxTokens,
	}
}

// NewHistory creates an empty history sized by the configuration.
func (c *Configuration) NewHistory() *history.Ring {
	return history.NewRing(c.HistorySize)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// EventLogEnabled is true if commands should be written to the event log.
func (c *Configuration) EventLogEnabled() bool {
	return c.EventLog != ""
}

// OpenEventLog opens the event log in an append only state, creating its
// directory if needed.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if err := c.fs().MkdirAll(filepath.Dir(c.EventLog), 0700); err != nil {
		return nil, err
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration rooted at the given directory.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewBasePathFs(afero.NewOsFs(), dir)
	return out
}

// DefaultString returns the built-in configuration file contents.
func DefaultString() string {
	return string(defaultConfigData)
}
