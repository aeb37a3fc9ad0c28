package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	pkgkafka "github.com/kanavphull/stores-rest-api/pkg/kafka"
)

type capturingPublisher struct {
	topic string
	event *pkgkafka.Event
	err   error
}

func (c *capturingPublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	c.topic = topic
	c.event = event
	return c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestPublishUserRegistered(t *testing.T) {
	pub := &capturingPublisher{}
	p := NewProducer(pub, discardLogger())

	user := &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}
	err := p.PublishUserRegistered(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, TopicUserRegistered, pub.topic)
	require.NotNil(t, pub.event)
	assert.Equal(t, "42", pub.event.AggregateID)
	assert.Equal(t, AggregateTypeUser, pub.event.AggregateType)
	assert.Equal(t, SourceStoresAPI, pub.event.Source)

	var data UserRegisteredData
	require.NoError(t, pub.event.UnmarshalData(&data))
	assert.Equal(t, int64(42), data.ID)
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, "alice@example.com", data.Email)
}

func TestPublishUserRegistered_BrokerError(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker unreachable")}
	p := NewProducer(pub, discardLogger())

	err := p.PublishUserRegistered(context.Background(), &domain.User{ID: 1, Username: "a", Email: "a@b.c"})
	assert.Error(t, err)
}
