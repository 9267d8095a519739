package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// recordingClient only implements Publish and Disconnect.
type recordingClient struct {
	mqtt.Client
	sent []published
	err  error
}

func (c *recordingClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return doneToken{err: c.err}
}

func (c *recordingClient) Disconnect(uint) {}

func TestMethodChangedPublishes(t *testing.T) {
	client := &recordingClient{}
	n := NewMQTTNotifier(client)
	n.now = func() time.Time { return time.Unix(1700000000, 0) }

	err := n.MethodChanged(model.AthanSettings{ScreenID: 4, DeviceID: "abc", Method: method.Tehran})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	msg := client.sent[0]
	assert.Equal(t, "tv/abc/commands", msg.topic)
	assert.Equal(t, byte(1), msg.qos)

	var decoded MethodChangedMessage
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.Equal(t, "athan_method_changed", decoded.Type)
	assert.Equal(t, 4, decoded.ScreenID)
	assert.Equal(t, method.Tehran, decoded.Method)
	assert.Equal(t, method.Tehran.Params(), decoded.Parameters)
	assert.Equal(t, int64(1700000000), decoded.Timestamp)
}

func TestMethodChangedPublishError(t *testing.T) {
	client := &recordingClient{err: errors.New("not connected")}
	n := NewMQTTNotifier(client)

	err := n.MethodChanged(model.AthanSettings{ScreenID: 1, DeviceID: "abc", Method: method.Qatar})
	assert.ErrorContains(t, err, "not connected")
}

func TestMethodChangedUnknownMethod(t *testing.T) {
	client := &recordingClient{}
	n := NewMQTTNotifier(client)

	err := n.MethodChanged(model.AthanSettings{ScreenID: 1, DeviceID: "abc"})
	assert.ErrorIs(t, err, method.ErrUnknownMethod)
	assert.Empty(t, client.sent)
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	assert.NoError(t, n.MethodChanged(model.AthanSettings{}))
}
