package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const (
	connectTimeout = 10 * time.Second
	publishQoS     = 0
)

// MQTTPublisher publishes playback updates to an MQTT broker. Positions go to
// fleet/<truckID>/position and lifecycle events to fleet/<truckID>/event.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker at brokerURL and returns a ready
// publisher.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			log.WithField("broker", brokerURL).Info("MQTT connected")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &MQTTPublisher{client: client}, nil
}

// PublishPosition sends a position update for the active truck.
func (p *MQTTPublisher) PublishPosition(msg PositionMessage) error {
	return p.publish(fmt.Sprintf("fleet/%s/position", msg.TruckID), msg)
}

// PublishEvent sends a playback lifecycle event.
func (p *MQTTPublisher) PublishEvent(evt Event) error {
	topic := "fleet/events"
	if evt.TruckID != "" {
		topic = fmt.Sprintf("fleet/%s/event", evt.TruckID)
	}
	return p.publish(topic, evt)
}

func (p *MQTTPublisher) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", topic, err)
	}
	token := p.client.Publish(topic, publishQoS, false, data)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker, allowing in-flight messages to drain.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
