package nats_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	nats2 "photodrop/internal/adapters/eventbroker/nats"
	"photodrop/internal/config"
	"photodrop/internal/core/port"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupNATSContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func TestPublisher_PublishPhotoGroupCreated(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:        natsURL,
		StreamName: "test-stream",
		Subject:    "photo_group.created",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := nc.JetStream()
	require.NoError(t, err)

	sub, err := js.SubscribeSync(cfg.Subject, nats.BindStream(cfg.StreamName))
	require.NoError(t, err)

	event := port.PhotoGroupCreatedEvent{
		GroupID:    uuid.New(),
		Owner:      uuid.New(),
		PhotoCount: 3,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	// Act
	err = publisher.PublishPhotoGroupCreated(ctx, event)
	require.NoError(t, err)

	// Assert
	msg, err := sub.NextMsg(3 * time.Second)
	require.NoError(t, err)

	var got port.PhotoGroupCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, event.GroupID, got.GroupID)
	assert.Equal(t, event.Owner, got.Owner)
	assert.Equal(t, event.PhotoCount, got.PhotoCount)
	assert.True(t, event.CreatedAt.Equal(got.CreatedAt))
}

func TestPublisher_EnsuresStreamOnStartup(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:        natsURL,
		StreamName: "fresh-stream",
		Subject:    "fresh.subject",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Act
	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	// Assert
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := nc.JetStream()
	require.NoError(t, err)

	info, err := js.StreamInfo(cfg.StreamName)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Subject}, info.Config.Subjects)
}
