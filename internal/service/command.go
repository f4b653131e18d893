package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Supported device commands.
const (
	CommandLock   = "LOCK"
	CommandUnlock = "UNLOCK"
)

type lockStore interface {
	SetLock(ctx context.Context, id string, locked bool) error
}

type commandPublisher interface {
	PublishCommand(ctx context.Context, deviceID, command string) error
}

// CommandService handles operator lock/unlock commands: it records the
// intended lock state and republishes the command to the device topic.
type CommandService struct {
	logger    *zap.Logger
	vehicles  lockStore
	publisher commandPublisher
}

func NewCommandService(logger *zap.Logger, vehicles lockStore, publisher commandPublisher) *CommandService {
	return &CommandService{
		logger:    logger,
		vehicles:  vehicles,
		publisher: publisher,
	}
}

// Send dispatches a command to a device. A failed state update is
// logged but does not block the publish: the operator's intent should
// still reach the device even if local bookkeeping fails.
func (s *CommandService) Send(ctx context.Context, deviceID, command string) error {
	if command != CommandLock && command != CommandUnlock {
		return fmt.Errorf("unknown command %q", command)
	}

	if err := s.vehicles.SetLock(ctx, deviceID, command == CommandLock); err != nil {
		s.logger.Error("Failed to update lock state",
			zap.Error(err),
			zap.String("device_id", deviceID),
			zap.String("command", command),
		)
	}

	if err := s.publisher.PublishCommand(ctx, deviceID, command); err != nil {
		return fmt.Errorf("publish command: %w", err)
	}

	s.logger.Info("Command sent",
		zap.String("device_id", deviceID),
		zap.String("command", command),
	)
	return nil
}
