package services

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event subjects published on asset and contact activity.
const (
	SubjectAssetUploaded   = "portfolio.assets.uploaded"
	SubjectAssetDeleted    = "portfolio.assets.deleted"
	SubjectContactReceived = "portfolio.contact.received"
)

// EventPublisher publishes lifecycle events to NATS. A nil publisher is
// valid and drops everything, so call sites never branch on configuration.
type EventPublisher struct {
	nc *nats.Conn
}

// ConnectEvents connects to NATS. An empty URL disables publishing.
func ConnectEvents(url string) (*EventPublisher, error) {
	if url == "" {
		return nil, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("portfolio-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logrus.Warnf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.Infof("nats reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}

	logrus.Infof("connected to NATS at %s", url)
	return &EventPublisher{nc: nc}, nil
}

// Publish is fire-and-forget; a failed publish is logged, never surfaced to
// the request that triggered it.
func (p *EventPublisher) Publish(subject string, payload interface{}) {
	if p == nil || p.nc == nil || !p.nc.IsConnected() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.Warnf("failed to marshal event payload for %s: %v", subject, err)
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		logrus.Warnf("failed to publish %s: %v", subject, err)
	}
}

func (p *EventPublisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
