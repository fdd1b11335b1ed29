// Package notify publishes build reports to NATS so external hooks (deploy
// scripts, dashboards) can react to completed builds.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher emits build events. The zero-value (or nil) Publisher is a
// no-op, so callers can wire it unconditionally.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// New connects to NATS. An empty URL yields a no-op publisher.
func New(natsURL, subject string) (*Publisher, error) {
	if natsURL == "" {
		return &Publisher{}, nil
	}

	conn, err := nats.Connect(natsURL, nats.Name("stanza"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("Build notifications enabled", slog.String("url", natsURL), slog.String("subject", subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish serializes the report as JSON and publishes it. No-op publishers
// return nil.
func (p *Publisher) Publish(report any) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build report: %w", err)
	}
	return p.conn.Flush()
}

// Close drains the connection. Safe on no-op publishers.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
