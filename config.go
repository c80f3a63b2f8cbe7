package ama

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DefaultRegion       = "us-east-1"
	DefaultInitialState = "entry"
	defaultPackageName  = "localhost"
	endpointTemplate    = "https://mobileanalytics.%s.amazonaws.com/2014-06-05/events"
)

// Spool drivers.
const (
	SpoolNone   = "none"
	SpoolFile   = "file"
	SpoolSQLite = "sqlite"
)

// Config holds the process-wide recorder settings. It is read-only once the
// plugin is created.
type Config struct {
	AppID             string `mapstructure:"app_id" yaml:"app_id"`
	AppTitle          string `mapstructure:"app_title" yaml:"app_title"`
	AppVersionName    string `mapstructure:"app_version_name" yaml:"app_version_name"`
	AppVersionCode    string `mapstructure:"app_version_code" yaml:"app_version_code"`
	AppPackageName    string `mapstructure:"app_package_name" yaml:"app_package_name"`
	Make              string `mapstructure:"make" yaml:"make"`
	Model             string `mapstructure:"model" yaml:"model"`
	Platform          string `mapstructure:"platform" yaml:"platform"`
	PlatformVersion   string `mapstructure:"platform_version" yaml:"platform_version"`
	Region            string `mapstructure:"region" yaml:"region"`
	CredentialsPoolID string `mapstructure:"credentials_pool_id" yaml:"credentials_pool_id,omitempty"`
	// Endpoint defaults to the regional analytics endpoint.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	IgnoreUsers          []string `mapstructure:"ignore_users" yaml:"ignore_users"`
	SuppressSending      bool     `mapstructure:"suppress_sending" yaml:"suppress_sending"`
	EnableVerboseLogging bool     `mapstructure:"enable_verbose_logging" yaml:"enable_verbose_logging"`

	// InitialState names the entry phase whose transitions are not logged.
	InitialState string `mapstructure:"initial_state" yaml:"initial_state"`
	// ClearOnFlush empties the rider buffer after each flush. The default,
	// false, lets every terminal callback of a request resend the whole buffer.
	ClearOnFlush bool `mapstructure:"clear_on_flush" yaml:"clear_on_flush"`
	// LegacyTransitionEvent records transitions as "Custom" instead of "Transition".
	LegacyTransitionEvent bool `mapstructure:"legacy_transition_event" yaml:"legacy_transition_event"`

	Compress bool          `mapstructure:"compress" yaml:"compress"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retry    RetryConfig   `mapstructure:"retry" yaml:"retry"`
	Spool    SpoolConfig   `mapstructure:"spool" yaml:"spool"`
}

// RetryConfig enables the retrying sink wrapper when MaxRetries > 0.
type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
}

// SpoolConfig selects where undeliverable batches are kept.
type SpoolConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path,omitempty"`
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.AppPackageName == "" {
		c.AppPackageName = os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
	}
	if c.AppPackageName == "" {
		c.AppPackageName = defaultPackageName
	}
	if c.InitialState == "" {
		c.InitialState = DefaultInitialState
	}
	if c.Endpoint == "" {
		c.Endpoint = fmt.Sprintf(endpointTemplate, c.Region)
	}
	if c.Spool.Driver == "" {
		c.Spool.Driver = SpoolNone
	}
	return c
}

// Validate reports the first invalid setting as a *ConfigurationError.
func (c Config) Validate() error {
	if c.AppID == "" {
		return &ConfigurationError{Field: "app_id", Err: ErrMissingAppID}
	}
	if c.Timeout < 0 {
		return &ConfigurationError{Field: "timeout", Err: errors.New("must not be negative")}
	}
	if c.Retry.MaxRetries < 0 {
		return &ConfigurationError{Field: "retry.max_retries", Err: errors.New("must not be negative")}
	}
	switch c.Spool.Driver {
	case "", SpoolNone:
	case SpoolFile, SpoolSQLite:
		if c.Spool.Path == "" {
			return &ConfigurationError{Field: "spool.path", Err: fmt.Errorf("required for driver %q", c.Spool.Driver)}
		}
	default:
		return &ConfigurationError{Field: "spool.driver", Err: fmt.Errorf("unknown driver %q", c.Spool.Driver)}
	}
	return nil
}

// headers returns the static headers sent with every batch.
func (c Config) headers() map[string]string {
	h := map[string]string{"X-App-Id": c.AppID}
	if c.CredentialsPoolID != "" {
		h["X-Credentials-Pool-Id"] = c.CredentialsPoolID
	}
	return h
}
