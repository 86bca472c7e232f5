package provider_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/provider"
)

type recordingSink struct {
	name string
	err  error
	sent []string
}

func (s *recordingSink) Name() string                       { return s.name }
func (s *recordingSink) IsAvailable(_ context.Context) bool { return true }
func (s *recordingSink) Send(_ context.Context, input string) error {
	s.sent = append(s.sent, input)
	return s.err
}

func newFactory(name string) provider.Factory[provider.Sink[string]] {
	return func(src config.Source) (provider.Sink[string], error) {
		if src == nil {
			return nil, fmt.Errorf("no source")
		}
		return &recordingSink{name: name}, nil
	}
}

func TestRegistryCreate(t *testing.T) {
	reg := provider.NewRegistry[provider.Sink[string]]()
	reg.RegisterFactory("mongo", newFactory("mongo"))

	src, _ := config.NewMapSource(map[string]any{})
	p, err := reg.Create("mongo", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mongo" {
		t.Errorf("expected mongo, got %q", p.Name())
	}

	if _, err := reg.Create("mongo", nil); err == nil {
		t.Error("expected factory error to propagate")
	}
}

func TestRegistryUnknownName(t *testing.T) {
	reg := provider.NewRegistry[provider.Sink[string]]()
	_, err := reg.Create("missing", nil)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if !errors.HasCode(reg.Available("missing"), errors.ErrCodeNotFound) {
		t.Error("expected Available to report NOT_FOUND")
	}
}

func TestRegistryCapabilityGate(t *testing.T) {
	reg := provider.NewRegistry[provider.Sink[string]]()
	built := false
	missing := fmt.Errorf("client library not linked")
	reg.RegisterFactory("xmpp", func(src config.Source) (provider.Sink[string], error) {
		built = true
		return &recordingSink{name: "xmpp"}, nil
	}, func() error { return nil }, func() error { return missing })

	_, err := reg.Create("xmpp", nil)
	if !errors.HasCode(err, errors.ErrCodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
	if !stderrors.Is(err, missing) {
		t.Error("expected capability error as cause")
	}
	if built {
		t.Error("factory must not run when a capability check fails")
	}
	if reg.Available("xmpp") == nil {
		t.Error("expected Available to fail")
	}
}

func TestRegistryList(t *testing.T) {
	reg := provider.NewRegistry[provider.Sink[string]]()
	reg.RegisterFactory("xmpp", newFactory("xmpp"))
	reg.RegisterFactory("mongo", newFactory("mongo"))

	names := reg.List()
	if len(names) != 2 || names[0] != "mongo" || names[1] != "xmpp" {
		t.Errorf("expected sorted [mongo xmpp], got %v", names)
	}
}
