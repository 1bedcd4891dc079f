// Package broker publica eventos de inventario en Kafka.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
)

// KafkaPublisher escribe cada evento como JSON en el topic configurado.
type KafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
	log     *logger.Logger
}

// defaultPublishTimeout aplica cuando la configuración no fija uno.
const defaultPublishTimeout = 2 * time.Second

// NewEventPublisher devuelve el productor Kafka si hay brokers, o NoopPublisher si no.
func NewEventPublisher(cfg config.BrokerConfig, log *logger.Logger) ports.EventPublisher {
	if len(cfg.Brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg, log)
}

// NewKafkaPublisher crea el productor. La conexión se abre en la primera escritura.
func NewKafkaPublisher(cfg config.BrokerConfig, log *logger.Logger) *KafkaPublisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: timeout,
			ReadTimeout:  timeout,
		},
		timeout: timeout,
		log:     log.Named("broker"),
	}
}

// Publish escribe el evento de forma síncrona. Los reintentos del writer quedan acotados por p.timeout.
func (p *KafkaPublisher) Publish(ctx context.Context, event entity.InventoryEvent) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	p.log.Debug().Str("type", event.Type).Str("key", string(msg.Key)).Msg("evento publicado")
	return nil
}

// Close vacía y cierra el productor.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// encodeEvent serializa el evento. La clave es el producto para conservar el orden por producto;
// los eventos de ingesta (sin producto) usan el batch id.
func encodeEvent(event entity.InventoryEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	key := event.BatchID
	if event.ProductID != 0 {
		key = strconv.FormatInt(event.ProductID, 10)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

// NoopPublisher descarta los eventos (sin KAFKA_BROKERS).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, entity.InventoryEvent) error { return nil }
