package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"snochat-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "SNOCHAT_EVENTS"
	subjectPrefix = "snochat.events"
)

// Publisher pushes domain events onto a JetStream stream. Delivery is best
// effort; every caller treats a publish failure as a warning, never as a
// request failure.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectPrefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %q: %w", streamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends one event under snochat.events.<type>.
func (p *Publisher) Publish(ctx context.Context, evt events.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", subjectPrefix, strings.ToLower(evt.Type))
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
