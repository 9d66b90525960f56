package natsevents

import (
	"context"
	"encoding/json"
	"fmt"
	"map-distance-service/internal/domain"
	"time"

	"github.com/nats-io/nats.go"
)

const SubjectRouteCalculated = "mapsearch.route.calculated"

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
}

// Publisher implements ports.EventPublisher on core NATS.
type Publisher struct {
	conn conn
	nc   *nats.Conn
}

// NewPublisher connects to NATS. Connection is retried in the background,
// so a broker that is down at startup does not block the service.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("map-distance-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, nc: nc}, nil
}

func (p *Publisher) PublishRouteCalculated(ctx context.Context, evt domain.RouteCalculated) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal route event: %w", err)
	}
	if err := p.conn.Publish(SubjectRouteCalculated, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectRouteCalculated, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

// Noop discards events. Used when nats.url is not configured.
type Noop struct{}

func (Noop) PublishRouteCalculated(context.Context, domain.RouteCalculated) error { return nil }
