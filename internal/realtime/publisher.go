package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// publishTimeout bounds how long a mutating API request can be slowed down
// by an unreachable relay.
const publishTimeout = 3 * time.Second

// EventPublisher notifies subscribers of board mutations. Implementations
// are best-effort: the call never reports failure to the caller, because the
// durable write has already committed by the time it runs.
type EventPublisher interface {
	PublishBoardEvent(ctx context.Context, boardID string, event BoardEvent, payload interface{})
}

// Publisher POSTs envelopes to the relay's /emit endpoint. It is a no-op
// when the relay is not configured; realtime is an optional enhancement,
// not a hard dependency.
type Publisher struct {
	baseURL string
	secret  string
	client  *http.Client
	log     *logrus.Entry
}

var _ EventPublisher = (*Publisher)(nil)

func NewPublisher(baseURL, secret string) *Publisher {
	return &Publisher{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: publishTimeout},
		log:     logrus.WithField("component", "publisher"),
	}
}

func (p *Publisher) Enabled() bool {
	return p.baseURL != "" && p.secret != ""
}

// PublishBoardEvent fires the envelope at the relay. Transport errors,
// non-2xx responses and serialization failures are logged and swallowed so
// a relay outage never fails the mutating request that triggered the
// publish. Failed publishes are not retried; without an ordering token a
// retry could arrive after a newer event.
func (p *Publisher) PublishBoardEvent(ctx context.Context, boardID string, event BoardEvent, payload interface{}) {
	if !p.Enabled() {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		p.log.WithError(err).WithField("event", event).Warn("Failed to marshal event payload")
		return
	}
	body, err := json.Marshal(Envelope{BoardID: boardID, Event: event, Payload: raw})
	if err != nil {
		p.log.WithError(err).Warn("Failed to marshal event envelope")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/emit", bytes.NewReader(body))
	if err != nil {
		p.log.WithError(err).Warn("Failed to build publish request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-relay-secret", p.secret)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"board_id": boardID,
			"event":    event,
		}).Warn("Failed to publish board event")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.WithFields(logrus.Fields{
			"board_id": boardID,
			"event":    event,
			"status":   resp.StatusCode,
		}).Warn("Relay rejected board event")
	}
}
