package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/activecode/api"
)

type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes events as JSON on a subject.
type NATSSink struct {
	pub     Publisher
	subject string
}

func NewNATSSink(pub Publisher, subject string) *NATSSink {
	return &NATSSink{pub: pub, subject: subject}
}

// ConnectNATS dials url and returns a sink publishing on subject.
func ConnectNATS(url, subject string) (*NATSSink, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("activecode"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return NewNATSSink(nc, subject), nc, nil
}

func (s *NATSSink) Log(_ context.Context, ev api.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.pub.Publish(s.subject, b); err != nil {
		return fmt.Errorf("failed to publish event to nats: %w", err)
	}
	return nil
}
