// Package validation checks resolved returner settings.
//
// Struct tag validation uses the validator library. Field names in errors
// are the configuration keys, taken from the `config` tag and then the
// `mapstructure` tag:
//
//	type Settings struct {
//	    FromJID string `mapstructure:"from_jid" config:"jid" validate:"required"`
//	}
//	err := validation.Settings("xmpp", s) // MISSING_FIELD: xmpp.jid not defined in config
//
// Programmatic checks collect errors the same way:
//
//	v := validation.New()
//	v.Range("port", port, 1, 65535)
//	err := v.Validate()
package validation
