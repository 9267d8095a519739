package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
)

// Notifier tells a screen that its athan settings changed.
type Notifier interface {
	MethodChanged(s model.AthanSettings) error
}

// Noop is used when no MQTT broker is configured.
type Noop struct{}

func (Noop) MethodChanged(model.AthanSettings) error { return nil }

// MethodChangedMessage is published to tv/<device>/commands.
type MethodChangedMessage struct {
	Type       string            `json:"type"`
	ScreenID   int               `json:"screen_id"`
	Method     method.Method     `json:"method"`
	Parameters method.Parameters `json:"parameters"`
	Timestamp  int64             `json:"timestamp"`
}

func commandTopic(deviceID string) string {
	return fmt.Sprintf("tv/%s/commands", deviceID)
}

type MQTTNotifier struct {
	client mqtt.Client
	now    func() time.Time
}

func NewMQTTNotifier(client mqtt.Client) *MQTTNotifier {
	return &MQTTNotifier{client: client, now: time.Now}
}

// Connect dials the broker at brokerURL.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Str("broker", brokerURL).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func (n *MQTTNotifier) MethodChanged(s model.AthanSettings) error {
	params, ok := method.Resolve(s.Method)
	if !ok {
		return fmt.Errorf("%w: %v", method.ErrUnknownMethod, s.Method)
	}
	payload, err := json.Marshal(MethodChangedMessage{
		Type:       "athan_method_changed",
		ScreenID:   s.ScreenID,
		Method:     s.Method,
		Parameters: params,
		Timestamp:  n.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode method change: %w", err)
	}

	topic := commandTopic(s.DeviceID)
	token := n.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to send message to TV device %s: %w", s.DeviceID, token.Error())
	}

	log.Info().Str("device_id", s.DeviceID).Str("method", s.Method.String()).Msg("method change sent via MQTT")
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
