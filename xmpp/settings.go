package xmpp

import (
	"time"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/validation"
)

const (
	// Namespace is the configuration namespace of the returner.
	Namespace = "xmpp"

	// DefaultTimeout bounds one call from dial to close.
	DefaultTimeout = 30 * time.Second
)

// attrs maps setting names to configuration keys.
var attrs = map[string]string{
	"xmpp_profile":  "profile",
	"from_jid":      "jid",
	"password":      "password",
	"recipient_jid": "recipient",
	"server":        "server",
	"timeout":       "timeout",
}

// Settings are the resolved settings of one call.
type Settings struct {
	Profile      string `mapstructure:"xmpp_profile" config:"profile"`
	FromJID      string `mapstructure:"from_jid" config:"jid" validate:"required"`
	Password     string `mapstructure:"password" validate:"required"`
	RecipientJID string `mapstructure:"recipient_jid" config:"recipient" validate:"required"`
	// Server overrides the address found through DNS, as host:port.
	Server  string        `mapstructure:"server" validate:"omitempty,hostname_port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ResolveSettings reads the settings from r, honoring the alternate
// namespace alt, then overlays the credentials of the configured profile.
// A missing sender, password or recipient is a MISSING_FIELD error.
func ResolveSettings(r *config.Resolver, alt string) (Settings, error) {
	resolved := r.Resolve(attrs, alt)
	if profile := resolved.String("xmpp_profile"); profile != "" {
		applyProfile(r.Source, profile, resolved)
	}

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

// applyProfile copies the sender and password stored under the top-level
// key profile into resolved. Keys are read as "xmpp.jid" or "jid"; absent
// keys leave the namespace values in place.
func applyProfile(src config.Source, profile string, resolved config.Settings) {
	creds, ok := config.LookupMap(src, profile)
	if !ok {
		logger.Get("xmpp").Warn("xmpp profile not found", logger.Fields("profile", profile))
		return
	}
	logger.Get("xmpp").Info("using xmpp profile", logger.Fields("profile", profile))
	for name, key := range map[string]string{"from_jid": "jid", "password": "password"} {
		for _, k := range []string{Namespace + "." + key, key} {
			if v, found := creds[k]; found && !config.IsEmpty(v) {
				resolved[name] = v
				break
			}
		}
	}
}

// ApplyDefaults applies default values.
func (s *Settings) ApplyDefaults() {
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
}

// Validate checks that sender, password and recipient are present.
func (s *Settings) Validate() error {
	if err := validation.Settings(Namespace, s); err != nil {
		return err
	}
	if appErr := validation.New().NonNegative("timeout", int64(s.Timeout)).Validate(); appErr != nil {
		return appErr
	}
	return nil
}
