package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/returner"
)

type captureReturner struct {
	name    string
	results []returner.Result
}

func (c *captureReturner) Name() string                       { return c.name }
func (c *captureReturner) IsAvailable(_ context.Context) bool { return true }
func (c *captureReturner) Send(_ context.Context, r returner.Result) error {
	c.results = append(c.results, r)
	return nil
}

func newTestSource(t *testing.T, opts map[string]any) config.Source {
	t.Helper()
	src, err := config.NewMapSource(opts)
	if err != nil {
		t.Fatalf("NewMapSource failed: %v", err)
	}
	return src
}

func sampleResult() returner.Result {
	return returner.Result{ID: "web01", JID: "20260118120000123456", Fun: "test.ping", Return: true}
}

func TestNewAppDefaults(t *testing.T) {
	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, nil)),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "minion" {
		t.Errorf("expected name minion, got %s", app.Name)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected development environment, got %s", app.Cfg.Environment)
	}
	if app.Cfg.Tracing.Enabled || app.Cfg.Metrics.Enabled {
		t.Error("telemetry must be disabled by default")
	}
	if app.Cfg.Tracing.ServiceName != "minion" || app.Cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("unexpected tracing defaults: %+v", app.Cfg.Tracing)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewAppKeepsZeroSampleRate(t *testing.T) {
	cfg := DefaultConfig("minion")
	cfg.Tracing.SampleRate = 0

	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, nil)),
		WithConfig(cfg),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Cfg.Tracing.SampleRate != 0 {
		t.Errorf("expected sampling to stay off, got %v", app.Cfg.Tracing.SampleRate)
	}
	if app.Cfg.Tracing.ServiceName != "minion" {
		t.Errorf("expected other tracing defaults to apply, got %+v", app.Cfg.Tracing)
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"environment", Config{ServiceConfig: config.ServiceConfig{Environment: "qa"}}},
		{"sample rate", Config{Tracing: TracingConfig{Enabled: true}}},
	}
	tests[1].cfg.Tracing.SampleRate = 2

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewApp(context.Background(), "minion",
				WithSource(newTestSource(t, nil)),
				WithConfig(tc.cfg),
				WithLogger(logger.Nop()),
			)
			if err == nil {
				t.Fatal("expected config validation error")
			}
		})
	}
}

func TestBuiltinRegistry(t *testing.T) {
	reg := BuiltinRegistry()
	if got, want := reg.List(), []string{"mongo", "xmpp"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNewAppSummarizesReturners(t *testing.T) {
	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, nil)),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	statuses := app.Summary.Returners()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 returners, got %d", len(statuses))
	}
	for _, st := range statuses {
		if !st.Available {
			t.Errorf("returner %s unavailable: %s", st.Name, st.Reason)
		}
	}
	out := app.Summary.String()
	if !strings.Contains(out, "returner mongo") || !strings.Contains(out, "returner xmpp") {
		t.Errorf("summary misses returners:\n%s", out)
	}
}

func TestReturnDispatchesToEveryNamedReturner(t *testing.T) {
	first := &captureReturner{name: "first"}
	second := &captureReturner{name: "second"}
	reg := returner.NewRegistry()
	for _, c := range []*captureReturner{first, second} {
		reg.RegisterFactory(c.name, func(config.Source) (returner.Returner, error) { return c, nil })
	}

	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, nil)),
		WithRegistry(reg),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	if err := app.Return(context.Background(), "first, second", sampleResult()); err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if len(first.results) != 1 || len(second.results) != 1 {
		t.Errorf("expected one result each, got %d and %d", len(first.results), len(second.results))
	}
}

func TestReturnReportsMissingMessagingSettings(t *testing.T) {
	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, map[string]any{"xmpp.jid": "agent@xmpp.example.com", "xmpp.password": "pw"})),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	err = app.Return(context.Background(), "xmpp", sampleResult())
	if !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
}

func TestNewAppLoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "name: agent\nenvironment: staging\nlogging:\n  level: debug\nmetrics:\n  interval: 30\ntracing:\n  endpoint: collector:4318\n  sample_rate: 0\nmongo:\n  db: salt\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, err := NewApp(context.Background(), "agent",
		WithLoaderOptions(config.WithConfigFile(path), config.WithEnvFile(filepath.Join(dir, "none.env"))),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Cfg.Environment != "staging" {
		t.Errorf("expected staging, got %s", app.Cfg.Environment)
	}
	if app.Cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", app.Cfg.Logging.Level)
	}
	if app.Cfg.Tracing.SampleRate != 0 {
		t.Errorf("expected sample_rate 0 to be kept, got %v", app.Cfg.Tracing.SampleRate)
	}
	if app.Cfg.Tracing.Endpoint != "collector:4318" {
		t.Errorf("expected configured endpoint, got %s", app.Cfg.Tracing.Endpoint)
	}
	if app.Cfg.Metrics.Interval != 30*time.Second {
		t.Errorf("expected a bare interval to count seconds, got %s", app.Cfg.Metrics.Interval)
	}
	if got := config.NewResolver(app.Source, "mongo").Lookup("db", ""); got != "salt" {
		t.Errorf("expected mongo.db salt, got %v", got)
	}
}

func TestShutdownRunsStopHooksInReverse(t *testing.T) {
	app, err := NewApp(context.Background(), "minion",
		WithSource(newTestSource(t, nil)),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	var order []int
	app.OnStop(
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return fmt.Errorf("flush failed") },
		func(context.Context) error { order = append(order, 3); return nil },
	)

	err = app.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Fatalf("expected aggregated hook error, got %v", err)
	}
	if !reflect.DeepEqual(order, []int{3, 2, 1}) {
		t.Errorf("expected reverse order, got %v", order)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown must be a no-op, got %v", err)
	}
}
