package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongoversion "go.mongodb.org/mongo-driver/v2/version"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/returner"
	"github.com/kbukum/jobreturn/version"
)

// Name is the registry name of the returner.
const Name = "mongo"

const (
	driverModule     = "go.mongodb.org/mongo-driver/v2"
	minDriverVersion = "2.0.0"
)

// Returner writes job results to MongoDB. It holds no connection; every
// call dials, operates and disconnects.
type Returner struct {
	resolver *config.Resolver
	dial     Dialer
	log      *logger.Logger
}

var _ returner.Returner = (*Returner)(nil)

// Option configures a Returner.
type Option func(*Returner)

// WithDialer replaces the driver-backed Dial.
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
		log:      logger.Get("mongo"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds the returner to reg behind the driver capability check.
func Register(reg *returner.Registry, opts ...Option) {
	reg.RegisterFactory(Name, func(src config.Source) (returner.Returner, error) {
		return New(src, opts...), nil
	}, Capability)
}

// Capability checks that the linked driver is recent enough.
func Capability() error {
	return version.RequireVersion(driverModule, mongoversion.Driver, minDriverVersion)
}

// Name implements provider.Provider.
func (r *Returner) Name() string { return Name }

// IsAvailable implements provider.Provider.
func (r *Returner) IsAvailable(_ context.Context) bool { return Capability() == nil }

// Send stores res in the collection named after the minion.
func (r *Returner) Send(ctx context.Context, res returner.Result) error {
	log := r.log.WithContext(ctx).WithFields(map[string]interface{}{
		logger.FieldMinionID: res.ID,
		logger.FieldJobID:    res.JID,
	})

	payload := res.Return
	if m, ok := asMapping(payload); ok {
		payload = SanitizeKeys(m)
	}
	log.Debug("storing job result", logger.Fields("return", payload))

	doc := bson.M{res.JID: payload, "fun": res.Fun}
	if res.Out != "" {
		doc["out"] = res.Out
	}

	return r.withStore(ctx, res.RetConfig, "insert", func(ctx context.Context, store Store) error {
		if err := store.Insert(ctx, res.ID, doc); err != nil {
			return err
		}
		log.Debug("job result stored", logger.Fields(logger.FieldCollection, res.ID))
		return nil
	})
}

// withStore resolves the settings, dials, runs fn and always closes the
// connection again. The whole call is bounded by the configured timeout.
func (r *Returner) withStore(ctx context.Context, alt, op string, fn func(context.Context, Store) error) error {
	settings, err := ResolveSettings(r.resolver, alt)
	if err != nil {
		r.log.WithContext(ctx).Error("invalid mongo settings", logger.ErrorFields(op, err))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	start := time.Now()
	store, err := r.dial(ctx, settings)
	if err != nil {
		return r.fail(ctx, op, err)
	}
	defer func() {
		if cerr := store.Close(context.WithoutCancel(ctx)); cerr != nil {
			r.log.WithContext(ctx).Warn("mongo disconnect failed", logger.ErrorFields(op, cerr))
		}
	}()

	if err := fn(ctx, store); err != nil {
		return r.fail(ctx, op, err)
	}
	r.log.WithContext(ctx).Debug("mongo operation done", logger.DurationFields(op, time.Since(start)))
	return nil
}

func (r *Returner) fail(ctx context.Context, op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.Timeout("mongo " + op).WithCause(err)
	} else if !errors.IsAppError(err) {
		err = errors.DatabaseError(err).WithDetail("operation", op)
	}
	r.log.WithContext(ctx).Error("mongo operation failed", logger.ErrorFields(op, err))
	return err
}
