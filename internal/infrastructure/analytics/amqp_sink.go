// Package analytics contiene los sinks de eventos de analítica.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

var _ ports.AnalyticsSink = (*AMQPSink)(nil)

// AMQPSink publica cada evento como mensaje JSON persistente en una cola durable.
// La conexión se abre en el primer envío y se vuelve a abrir si el broker la cerró.
type AMQPSink struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewAMQPSink construye el sink; no conecta hasta el primer Publish.
func NewAMQPSink(url, queue string) *AMQPSink {
	return &AMQPSink{url: url, queue: queue}
}

func (s *AMQPSink) channel() (*amqp.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.conn.IsClosed() {
		conn, err := amqp.Dial(s.url)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: dial: %w", err)
		}
		s.conn = conn
	}
	ch, err := s.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	return ch, nil
}

// Publish declara la cola (idempotente) y publica el evento.
func (s *AMQPSink) Publish(ctx context.Context, ev entity.AnalyticsEvent) error {
	ch, err := s.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declarar cola: %w", err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Category + "." + ev.Action,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publicar: %w", err)
	}
	return nil
}

// Close cierra la conexión si existe.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}
