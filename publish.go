package corvid

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher receives every dispatch event a Session decodes, in addition
// to normal in-process listener delivery. It exists so a deployment can
// fan gateway events out to other processes without every consumer
// holding its own gateway connection.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data []byte) error
	Close() error
}

// NATSPublisher publishes dispatch events onto a NATS subject derived
// from Subject plus the event type, mirroring the subject-per-channel
// convention the message queue clients use internally.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to a NATS server at url and returns a
// Publisher that publishes to subject+"."+eventType for each event.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("corvid: nats connect: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, eventType string, data []byte) error {
	return p.conn.Publish(p.subject+"."+eventType, data)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
