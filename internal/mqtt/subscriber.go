package mqtt

import (
	"context"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// statusTopic matches status reports from every device.
const statusTopic = "/device/+/status"

// StatusHandler processes one raw inbound status message.
type StatusHandler interface {
	HandleStatus(ctx context.Context, topic string, payload []byte)
}

// Subscriber binds device status topics to the ingestion pipeline.
type Subscriber struct {
	client  paho.Client
	handler StatusHandler
	logger  *zap.Logger
}

func NewSubscriber(client paho.Client, handler StatusHandler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start subscribes to the status topic. Each message is handled on its
// own goroutine; the ingestion pipeline serializes per device, so this
// only widens cross-device concurrency.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(statusTopic, 1, func(_ paho.Client, msg paho.Message) {
		topic, payload := msg.Topic(), msg.Payload()
		go s.handler.HandleStatus(context.Background(), topic, payload)
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	s.logger.Info("Subscribed to device status topic", zap.String("topic", statusTopic))
	return nil
}
