package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// CommandPublisher republishes operator commands to device topics.
type CommandPublisher struct {
	client paho.Client
}

func NewCommandPublisher(client paho.Client) *CommandPublisher {
	return &CommandPublisher{client: client}
}

// PublishCommand sends {"command": ...} to /device/{id}/command.
func (p *CommandPublisher) PublishCommand(ctx context.Context, deviceID, command string) error {
	topic := fmt.Sprintf("/device/%s/command", deviceID)
	payload, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
