package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name     string
	startErr error
	events   *[]string
}

func (s *recordingService) Start(ctx context.Context) error {
	*s.events = append(*s.events, "start:"+s.name)
	return s.startErr
}

func (s *recordingService) Stop() {
	*s.events = append(*s.events, "stop:"+s.name)
}

func TestRegistry_StartAllInOrder(t *testing.T) {
	var events []string
	registry := NewRegistry()
	registry.Register(&recordingService{name: "a", events: &events})
	registry.Register(&recordingService{name: "b", events: &events})

	require.NoError(t, registry.StartAll(context.Background()))
	assert.Equal(t, []string{"start:a", "start:b"}, events)
}

func TestRegistry_StartAllStopsOnFirstError(t *testing.T) {
	var events []string
	registry := NewRegistry()
	registry.Register(&recordingService{name: "a", events: &events})
	registry.Register(&recordingService{name: "b", startErr: fmt.Errorf("boom"), events: &events})
	registry.Register(&recordingService{name: "c", events: &events})

	err := registry.StartAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"start:a", "start:b"}, events)
}

func TestRegistry_StopAllReverseOrder(t *testing.T) {
	var events []string
	registry := NewRegistry()
	registry.Register(&recordingService{name: "a", events: &events})
	registry.Register(&recordingService{name: "b", events: &events})

	require.NoError(t, registry.StartAll(context.Background()))
	registry.StopAll()

	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, events)
}
