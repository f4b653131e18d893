package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLockStore struct {
	err    error
	id     string
	locked bool
	calls  int
}

func (f *fakeLockStore) SetLock(_ context.Context, id string, locked bool) error {
	f.id, f.locked = id, locked
	f.calls++
	return f.err
}

type fakePublisher struct {
	err      error
	deviceID string
	command  string
	calls    int
}

func (f *fakePublisher) PublishCommand(_ context.Context, deviceID, command string) error {
	f.deviceID, f.command = deviceID, command
	f.calls++
	return f.err
}

func TestSendLock(t *testing.T) {
	store := &fakeLockStore{}
	pub := &fakePublisher{}
	svc := NewCommandService(zap.NewNop(), store, pub)

	require.NoError(t, svc.Send(context.Background(), "MOTO_001", CommandLock))

	assert.Equal(t, "MOTO_001", store.id)
	assert.True(t, store.locked)
	assert.Equal(t, "MOTO_001", pub.deviceID)
	assert.Equal(t, CommandLock, pub.command)
}

func TestSendUnlock(t *testing.T) {
	store := &fakeLockStore{}
	pub := &fakePublisher{}
	svc := NewCommandService(zap.NewNop(), store, pub)

	require.NoError(t, svc.Send(context.Background(), "MOTO_001", CommandUnlock))
	assert.False(t, store.locked)
}

func TestSendRejectsUnknownCommand(t *testing.T) {
	store := &fakeLockStore{}
	pub := &fakePublisher{}
	svc := NewCommandService(zap.NewNop(), store, pub)

	err := svc.Send(context.Background(), "MOTO_001", "SELF_DESTRUCT")
	require.Error(t, err)
	assert.Zero(t, store.calls)
	assert.Zero(t, pub.calls)
}

func TestSendPublishesDespiteStateFailure(t *testing.T) {
	store := &fakeLockStore{err: errors.New("db down")}
	pub := &fakePublisher{}
	svc := NewCommandService(zap.NewNop(), store, pub)

	require.NoError(t, svc.Send(context.Background(), "MOTO_001", CommandLock))
	assert.Equal(t, 1, pub.calls)
}

func TestSendReturnsPublishError(t *testing.T) {
	store := &fakeLockStore{}
	pub := &fakePublisher{err: errors.New("broker gone")}
	svc := NewCommandService(zap.NewNop(), store, pub)

	err := svc.Send(context.Background(), "MOTO_001", CommandLock)
	assert.Error(t, err)
}
