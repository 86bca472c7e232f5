package xmpp

import (
	"context"
	stderrors "errors"
	"reflect"
	"time"

	goxmpp "github.com/xmppo/go-xmpp"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/returner"
	"github.com/kbukum/jobreturn/version"
)

// Name is the registry name of the returner.
const Name = "xmpp"

const minClientVersion = "0.1.0"

// clientPackage is the import path of the linked XMPP client. The module
// providing it is looked up from this path at runtime.
var clientPackage = reflect.TypeOf((*goxmpp.Client)(nil)).Elem().PkgPath()

// Returner sends one chat message per job result.
type Returner struct {
	resolver *config.Resolver
	dial     Dialer
	log      *logger.Logger
}

var _ returner.Returner = (*Returner)(nil)

// Option configures a Returner.
type Option func(*Returner)

// WithDialer replaces the go-xmpp backed Dial.
func WithDialer(d Dialer) Option {
	return func(r *Returner) { r.dial = d }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Returner) { r.log = log }
}

// New creates a returner reading its settings from src.
func New(src config.Source, opts ...Option) *Returner {
	r := &Returner{
		resolver: config.NewResolver(src, Namespace),
		dial:     Dial,
		log:      logger.Get("xmpp"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds the returner to reg behind the client capability check.
func Register(reg *returner.Registry, opts ...Option) {
	reg.RegisterFactory(Name, func(src config.Source) (returner.Returner, error) {
		return New(src, opts...), nil
	}, Capability)
}

// Capability checks the linked XMPP client library.
func Capability() error {
	return version.RequirePackage(clientPackage, minClientVersion)
}

// Name implements provider.Provider.
func (r *Returner) Name() string { return Name }

// IsAvailable implements provider.Provider.
func (r *Returner) IsAvailable(_ context.Context) bool { return Capability() == nil }

// Send formats res and delivers it to the configured recipient. Settings
// are validated before any connection is attempted.
func (r *Returner) Send(ctx context.Context, res returner.Result) error {
	log := r.log.WithContext(ctx).WithFields(map[string]interface{}{
		logger.FieldMinionID: res.ID,
		logger.FieldJobID:    res.JID,
	})

	settings, err := ResolveSettings(r.resolver, res.RetConfig)
	if err != nil {
		log.Error("invalid xmpp settings", logger.ErrorFields("resolve", err))
		return err
	}
	body := FormatMessage(res)

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	start := time.Now()
	session, err := r.dial(ctx, settings)
	if err != nil {
		err = connectError(err)
		log.Error("xmpp connect failed", logger.ErrorFields("connect", err))
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("xmpp disconnect failed", logger.ErrorFields("close", cerr))
		}
	}()

	if err := session.Send(settings.RecipientJID, body); err != nil {
		err = errors.ExternalServiceError("xmpp", err)
		log.Error("xmpp send failed", logger.ErrorFields("send", err))
		return err
	}
	log.Debug("xmpp message sent", logger.DurationFields("send", time.Since(start)))
	return nil
}

func connectError(err error) error {
	switch {
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("xmpp connect").WithCause(err)
	default:
		return errors.ConnectionFailed("xmpp").WithCause(err)
	}
}
