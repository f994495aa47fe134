package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dbehnke/cdecoder/pkg/logger"
)

// Config holds MQTT publisher configuration
type Config struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
}

// Publisher handles MQTT event publishing
type Publisher struct {
	config Config
	log    *logger.Logger
}

// Event types for MQTT publishing

// SlotDecodedEvent represents the outcome of one decoded TDMA slot.
type SlotDecodedEvent struct {
	SlotIndex int       `json:"slot_index"`
	CoderType int       `json:"coder_type"`
	Stolen    bool      `json:"stolen"`
	BFI1      int       `json:"bfi1"`
	BFI2      int       `json:"bfi2"`
	BFI3      int       `json:"bfi3"`
	Timestamp time.Time `json:"timestamp"`
}

// FrameStolenEvent represents a slot whose frames were subject to
// frame stealing.
type FrameStolenEvent struct {
	SlotIndex int       `json:"slot_index"`
	Timestamp time.Time `json:"timestamp"`
}

// RunSummaryEvent represents end-of-run totals.
type RunSummaryEvent struct {
	Slots     int       `json:"slots"`
	Stolen    int       `json:"stolen"`
	BFIFrames int       `json:"bfi_frames"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new MQTT publisher
func New(config Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}
	
	return &Publisher{
		config: config,
		log:    log.WithComponent("mqtt"),
	}
}

// Start starts the MQTT publisher
func (p *Publisher) Start(ctx context.Context) error {
	if !p.config.Enabled {
		p.log.Info("MQTT publisher disabled")
		return nil
	}

	p.log.Info("Starting MQTT publisher",
		logger.String("broker", p.config.Broker),
		logger.String("client_id", p.config.ClientID))

	// TODO: Implement actual MQTT connection when paho.mqtt library is added
	// For now, this is a no-op stub that allows the application to start
	p.log.Warn("MQTT connection not yet implemented - events will not be published")
	
	return nil
}

// Stop stops the MQTT publisher
func (p *Publisher) Stop() {
	if !p.config.Enabled {
		return
	}

	p.log.Info("Stopping MQTT publisher")
	// TODO: Disconnect MQTT client when implemented
}

// PublishSlotDecoded publishes a per-slot decode outcome.
func (p *Publisher) PublishSlotDecoded(event SlotDecodedEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("slots/decoded")
	return p.publish(topic, event)
}

// PublishFrameStolen publishes a frame-stealing event.
func (p *Publisher) PublishFrameStolen(event FrameStolenEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("slots/stolen")
	return p.publish(topic, event)
}

// PublishRunSummary publishes end-of-run totals.
func (p *Publisher) PublishRunSummary(event RunSummaryEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("run/summary")
	return p.publish(topic, event)
}

// publish publishes an event to a topic
func (p *Publisher) publish(topic string, event interface{}) error {
	payload, err := p.serializeEvent(event)
	if err != nil {
		p.log.Error("Failed to serialize event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}

	// TODO: Implement actual MQTT publish when paho.mqtt library is added
	p.log.Debug("Would publish MQTT event",
		logger.String("topic", topic),
		logger.Int("payload_size", len(payload)))

	return nil
}

// serializeEvent serializes an event to JSON
func (p *Publisher) serializeEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

// formatTopic formats a topic with the configured prefix
func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.config.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
