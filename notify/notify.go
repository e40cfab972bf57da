// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package notify forwards committed governance events to NATS subjects so
// that external accounting and notification services can follow the
// association without polling.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultSubjectPrefix = "condo.events"

	// MsgIdHeader carries the event id so that JetStream can drop
	// duplicates
	MsgIdHeader = nats.MsgIdHdr
)

// Publisher is the part of *nats.Conn used to forward events
type Publisher interface {
	PublishMsg(*nats.Msg) error
}

type NotifierConfig struct {
	Logger        *slog.Logger
	EventBus      *event.EventBus
	PromRegistry  prometheus.Registerer
	Publisher     Publisher
	SubjectPrefix string
	// EventTypes defaults to every governance event type
	EventTypes []event.EventType
}

// Message is the JSON body published for each event
type Message struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      any             `json:"data"`
	ID        string          `json:"id"`
	Type      event.EventType `json:"type"`
}

type Notifier struct {
	config    NotifierConfig
	subIds    map[event.EventType]event.EventSubscriberId
	published *prometheus.CounterVec
	failures  *prometheus.CounterVec
	mu        sync.Mutex
}

func New(cfg NotifierConfig) (*Notifier, error) {
	if cfg.EventBus == nil {
		return nil, errors.New("notify: event bus is required")
	}
	if cfg.Publisher == nil {
		return nil, errors.New("notify: publisher is required")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "notify")
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	if len(cfg.EventTypes) == 0 {
		cfg.EventTypes = event.GovernanceEventTypes
	}
	n := &Notifier{
		config: cfg,
		subIds: make(map[event.EventType]event.EventSubscriberId),
	}
	if cfg.PromRegistry != nil {
		promautoFactory := promauto.With(cfg.PromRegistry)
		n.published = promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_notify_published_total",
				Help: "events forwarded to NATS by type",
			},
			[]string{"type"},
		)
		n.failures = promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_notify_failures_total",
				Help: "events that could not be forwarded by type",
			},
			[]string{"type"},
		)
	}
	return n, nil
}

// Connect dials a NATS server with reconnects enabled
func Connect(url string, name string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	logger = logger.With("component", "notify")
	conn, err := nats.Connect(
		url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("reconnected to NATS", "url", c.ConnectedUrlRedacted())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// Subject returns the NATS subject an event type is published to
func (n *Notifier) Subject(eventType event.EventType) string {
	return n.config.SubjectPrefix + "." + string(eventType)
}

// Start registers with the event bus
func (n *Notifier) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.subIds) > 0 {
		return errors.New("notify: already started")
	}
	for _, eventType := range n.config.EventTypes {
		n.subIds[eventType] = n.config.EventBus.RegisterSubscriber(
			eventType,
			&subjectSubscriber{
				notifier: n,
				subject:  n.Subject(eventType),
			},
		)
	}
	n.config.Logger.Info(
		"forwarding events",
		"prefix", n.config.SubjectPrefix,
		"types", len(n.config.EventTypes),
	)
	return nil
}

// Stop unregisters from the event bus. The publisher is left open.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for eventType, subId := range n.subIds {
		n.config.EventBus.Unsubscribe(eventType, subId)
	}
	clear(n.subIds)
}

func (n *Notifier) publish(subject string, evt event.Event) error {
	body, err := json.Marshal(Message{
		ID:        evt.ID,
		Type:      evt.Type,
		Timestamp: evt.Timestamp,
		Data:      evt.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := nats.NewMsg(subject)
	msg.Header.Set(MsgIdHeader, evt.ID)
	msg.Data = body
	return n.config.Publisher.PublishMsg(msg)
}

// subjectSubscriber publishes one event type to its subject
type subjectSubscriber struct {
	notifier *Notifier
	subject  string
}

// Deliver publishes the event. Transient failures are logged and counted;
// only a closed connection is returned, which makes the bus drop this
// subscriber.
func (s *subjectSubscriber) Deliver(evt event.Event) error {
	n := s.notifier
	err := n.publish(s.subject, evt)
	if err == nil {
		if n.published != nil {
			n.published.WithLabelValues(string(evt.Type)).Inc()
		}
		return nil
	}
	if n.failures != nil {
		n.failures.WithLabelValues(string(evt.Type)).Inc()
	}
	n.config.Logger.Error(
		"failed to forward event",
		"subject", s.subject,
		"id", evt.ID,
		"error", err,
	)
	if errors.Is(err, nats.ErrConnectionClosed) {
		return err
	}
	return nil
}

func (s *subjectSubscriber) Close() {}
