package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Типы событий прогресса, публикуемых для downstream-сервисов
// (уведомления, realtime-доставка).
const (
	EventTypeLevelUp      = "level_up"
	EventTypeBossDefeated = "boss_defeated"
	EventTypeBossFailed   = "boss_failed"
)

// ProgressEvent — полезная нагрузка события прогрессии пользователя.
type ProgressEvent struct {
	UserID     string    `json:"user_id"`
	EventType  string    `json:"event_type"`
	XPDelta    int       `json:"xp_delta"`
	TotalXP    int       `json:"total_xp"`
	NewLevel   int       `json:"new_level"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProgressEventPublisher defines the interface for publishing progression events.
type ProgressEventPublisher interface {
	PublishProgressEvent(ctx context.Context, event ProgressEvent) error
}

// rabbitMQPublisher implements ProgressEventPublisher for RabbitMQ.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQProgressPublisher открывает канал и объявляет durable-очередь.
// Объявление здесь делает систему устойчивой к порядку запуска сервисов.
func NewRabbitMQProgressPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (ProgressEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("progress publisher: не удалось открыть канал: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("progress publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}

	return &rabbitMQPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("ProgressPublisher"),
	}, nil
}

func (p *rabbitMQPublisher) PublishProgressEvent(ctx context.Context, event ProgressEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("progress publisher: ошибка сериализации события: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish progress event",
			zap.String("eventType", event.EventType), zap.String("userID", event.UserID), zap.Error(err))
		return fmt.Errorf("progress publisher: ошибка публикации: %w", err)
	}

	p.logger.Debug("Progress event published",
		zap.String("eventType", event.EventType), zap.String("userID", event.UserID))
	return nil
}

// NoopPublisher используется, когда брокер не сконфигурирован.
type NoopPublisher struct{}

func (NoopPublisher) PublishProgressEvent(context.Context, ProgressEvent) error { return nil }
