package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"locshare/internal/model"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const topicPattern = "circles/+/positions"

type positionDispatcher interface {
	HandlePosition(ctx context.Context, pos model.Position)
}

type positionMessage struct {
	MemberID  string  `json:"member_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// PositionSubscriber feeds the MQTT position stream into the dispatcher.
// A bad message is logged and skipped; the stream keeps running.
type PositionSubscriber struct {
	client     mqtt.Client
	dispatcher positionDispatcher
}

func NewPositionSubscriber(client mqtt.Client, dispatcher positionDispatcher) *PositionSubscriber {
	return &PositionSubscriber{
		client:     client,
		dispatcher: dispatcher,
	}
}

func (s *PositionSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("Position subscriber started on %s", topicPattern)
	return nil
}

func (s *PositionSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw positionMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("Invalid position message: %v", err)
		return
	}

	if err := validatePositionMessage(&raw); err != nil {
		log.Printf("Position message validation error: %v", err)
		return
	}

	s.dispatcher.HandlePosition(context.Background(), model.Position{
		MemberID:  raw.MemberID,
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		Timestamp: time.Unix(raw.Timestamp, 0),
	})
}

func validatePositionMessage(msg *positionMessage) error {
	if msg.MemberID == "" {
		return fmt.Errorf("member_id: required")
	}
	if !model.ValidCoordinate(msg.Latitude, msg.Longitude) {
		return fmt.Errorf("coordinate out of range: (%f, %f)", msg.Latitude, msg.Longitude)
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
