package mongo

import (
	"time"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/validation"
)

const (
	// Namespace is the configuration namespace of the returner.
	Namespace = "mongo"

	// DefaultHost is used when no host is configured.
	DefaultHost = "localhost"
	// DefaultPort is the standard MongoDB port.
	DefaultPort = 27017
	// DefaultTimeout bounds the dial and the operation of one call.
	DefaultTimeout = 10 * time.Second
)

// attrs maps setting names to configuration keys.
var attrs = map[string]string{
	"host":     "host",
	"port":     "port",
	"db":       "db",
	"username": "username",
	"user":     "user",
	"password": "password",
	"timeout":  "timeout",
}

// Settings are the resolved connection settings of one call.
type Settings struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	DB       string        `mapstructure:"db" validate:"required"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ResolveSettings reads the settings from r, honoring the alternate
// namespace alt. "user" is accepted as a spelling of "username".
func ResolveSettings(r *config.Resolver, alt string) (Settings, error) {
	resolved := r.Resolve(attrs, alt)
	if resolved["username"] == nil {
		resolved["username"] = resolved["user"]
	}
	delete(resolved, "user")

	var s Settings
	if err := config.Decode(map[string]any(resolved), &s); err != nil {
		return Settings{}, errors.InvalidInput(Namespace, err.Error()).WithCause(err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ApplyDefaults fills in the client defaults.
func (s *Settings) ApplyDefaults() {
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
}

// Validate checks the settings. A missing database name is reported as a
// MISSING_FIELD error before any connection is attempted.
func (s *Settings) Validate() error {
	if err := validation.Settings(Namespace, s); err != nil {
		return err
	}
	if appErr := validation.New().
		Range("port", s.Port, 1, 65535).
		NonNegative("timeout", int64(s.Timeout)).
		Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// HasAuth reports whether both credentials are set.
func (s *Settings) HasAuth() bool {
	return s.Username != "" && s.Password != ""
}
