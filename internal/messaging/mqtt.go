package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/grupomm-oficial/mm-frota/internal/models"
)

const publishTimeout = 5 * time.Second

// MQTTPublisher publishes lifecycle events to <prefix>/<event type>.
type MQTTPublisher struct {
	mu     sync.RWMutex
	client mqtt.Client
	prefix string
}

// ConnectMQTT dials the broker and returns a publisher bound to it.
func ConnectMQTT(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect: timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return NewMQTTPublisher(client, prefix), nil
}

func NewMQTTPublisher(client mqtt.Client, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix}
}

// Topic returns the topic an event type is published on.
func (p *MQTTPublisher) Topic(t models.EventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event models.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	token := p.client.Publish(p.Topic(event.Type), 1, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish %s: timed out", event.Type)
	}
	return token.Error()
}

func (p *MQTTPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Disconnect(1000)
		p.client = nil
	}
}
