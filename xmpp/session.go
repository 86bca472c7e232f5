package xmpp

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"strings"

	goxmpp "github.com/xmppo/go-xmpp"

	"github.com/kbukum/jobreturn/errors"
)

// Session is one open XMPP client connection.
type Session interface {
	// Send delivers a chat message with body to the bare or full JID to.
	Send(to, body string) error
	// Close ends the stream and closes the connection.
	Close() error
}

// Dialer opens a Session for the given settings.
type Dialer func(ctx context.Context, s Settings) (Session, error)

type clientSession struct {
	client *goxmpp.Client
}

// Dial logs in as s.FromJID. The server address is s.Server, else the
// xmpp-client SRV record of the JID's domain, else the domain on port 5222.
// StartTLS is required. The dial is abandoned when ctx ends first.
func Dial(ctx context.Context, s Settings) (Session, error) {
	user, resource := splitJID(s.FromJID)
	domain := domainOf(user)
	if domain == "" {
		return nil, errors.InvalidInput("xmpp.jid", "jid has no domain: "+s.FromJID)
	}

	addr := s.Server
	if addr == "" {
		addr = lookupServer(ctx, domain)
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.InvalidInput("xmpp.server", err.Error()).WithCause(err)
	}

	opts := goxmpp.Options{
		Host:      addr,
		User:      user,
		Password:  s.Password,
		Resource:  resource,
		NoTLS:     true,
		StartTLS:  true,
		TLSConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		Session:   true,
		Status:    "chat",
	}

	type dialed struct {
		client *goxmpp.Client
		err    error
	}
	done := make(chan dialed, 1)
	go func() {
		c, err := opts.NewClient()
		done <- dialed{client: c, err: err}
	}()

	select {
	case d := <-done:
		if d.err != nil {
			return nil, d.err
		}
		return &clientSession{client: d.client}, nil
	case <-ctx.Done():
		go func() {
			if d := <-done; d.client != nil {
				_ = d.client.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func (c *clientSession) Send(to, body string) error {
	_, err := c.client.Send(goxmpp.Chat{Remote: to, Type: "chat", Text: body})
	return err
}

func (c *clientSession) Close() error {
	return c.client.Close()
}

// lookupServer resolves the client endpoint of domain.
func lookupServer(ctx context.Context, domain string) string {
	_, srvs, err := net.DefaultResolver.LookupSRV(ctx, "xmpp-client", "tcp", domain)
	if err == nil {
		for _, srv := range srvs {
			if target := strings.TrimSuffix(srv.Target, "."); target != "" {
				return net.JoinHostPort(target, strconv.Itoa(int(srv.Port)))
			}
		}
	}
	return net.JoinHostPort(domain, "5222")
}

// splitJID splits "user@domain/resource" into the bare JID and resource.
func splitJID(jid string) (bare, resource string) {
	if i := strings.Index(jid, "/"); i >= 0 {
		return jid[:i], jid[i+1:]
	}
	return jid, ""
}

func domainOf(bare string) string {
	if i := strings.LastIndex(bare, "@"); i >= 0 {
		return bare[i+1:]
	}
	return bare
}
