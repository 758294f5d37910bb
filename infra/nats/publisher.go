// Package nats publishes prediction reports on a NATS subject, optionally
// persisting them in a JetStream stream.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kilianp07/matchcast/core/factory"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/publish"
	"github.com/kilianp07/matchcast/infra/logger"
)

// DefaultSubject is used when Config.Subject is empty.
const DefaultSubject = "matchcast.predictions"

// ReportIDHeader carries the report ID on every message.
const ReportIDHeader = "Matchcast-Report-Id"

// Config selects the server, subject and optional stream.
type Config struct {
	URL            string `json:"url"`
	Subject        string `json:"subject"`
	Stream         string `json:"stream"`
	Name           string `json:"name"`
	Token          string `json:"token"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Publisher sends reports over a NATS connection.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	log     logger.Logger
}

var _ publish.Publisher = (*Publisher)(nil)

func init() {
	_ = publish.Register("nats", func(conf map[string]any) (publish.Publisher, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return New(c)
	})
}

// New connects to the server. When Stream is set the stream is looked up and
// created on first use so published reports are retained.
func New(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Name == "" {
		cfg.Name = "matchcast"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	log := logger.New("nats_publisher")

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.Timeout(timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infof("nats reconnected to %s", c.ConnectedUrl())
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	p := &Publisher{nc: nc, subject: cfg.Subject, log: log}
	if cfg.Stream == "" {
		return p, nil
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	if _, err := js.StreamInfo(cfg.Stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			nc.Close()
			return nil, fmt.Errorf("stream info %s: %w", cfg.Stream, err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     cfg.Stream,
			Subjects: []string{cfg.Subject},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
		}
		log.Infof("created stream %s for %s", cfg.Stream, cfg.Subject)
	}
	p.js = js
	return p, nil
}

// PublishReport sends the report JSON. Without a stream the connection is
// flushed so the call returns once the server has the message.
func (p *Publisher) PublishReport(ctx context.Context, r model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(ReportIDHeader, r.ID)

	if p.js != nil {
		if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
			return fmt.Errorf("publish report %s: %w", r.ID, err)
		}
	} else {
		if err := p.nc.PublishMsg(msg); err != nil {
			return fmt.Errorf("publish report %s: %w", r.ID, err)
		}
		if err := p.nc.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("flush report %s: %w", r.ID, err)
		}
	}
	p.log.Debugf("published report %s on %s", r.ID, p.subject)
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	if p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	return p.nc.Drain()
}
