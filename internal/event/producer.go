package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	pkgkafka "github.com/kanavphull/stores-rest-api/pkg/kafka"
)

// TopicUserRegistered carries registration events consumed by background
// workers (e.g. an email digest service).
const TopicUserRegistered = "stores.user.registered"

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from this service.
const SourceStoresAPI = "stores-rest-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// publisher is the part of pkg/kafka.Producer the event producer uses.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	aggregateID := strconv.FormatInt(user.ID, 10)
	event, err := pkgkafka.NewEvent(TopicUserRegistered, aggregateID, AggregateTypeUser, SourceStoresAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}
