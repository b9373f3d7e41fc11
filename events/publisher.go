package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Acciones del ciclo de vida de una propiedad
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PropertyMessage es el mensaje que consume el indexador de búsqueda
type PropertyMessage struct {
	Action     string `json:"action"` // "create", "update", "delete"
	PropertyID string `json:"property_id"`
}

// Publisher publica los cambios de propiedades ya commiteados
type Publisher interface {
	PublishProperty(ctx context.Context, action, propertyID string) error
	Close() error
}

// RabbitMQPublisher publica en una queue durable. El channel de AMQP no es
// seguro para uso concurrente, por eso cada publish toma el mutex.
type RabbitMQPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	logger     *logrus.Logger
}

// NewRabbitMQPublisher conecta, abre un channel y declara la queue
func NewRabbitMQPublisher(rabbitURL, queueName string, logger *logrus.Logger) (*RabbitMQPublisher, error) {
	logger.Info("Connecting to RabbitMQ")

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if queueName == "" {
		queueName = "properties_queue"
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
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.WithField("queue", queueName).Info("RabbitMQ publisher ready")

	return &RabbitMQPublisher{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		logger:     logger,
	}, nil
}

// PublishProperty manda {action, property_id} como mensaje persistente
func (p *RabbitMQPublisher) PublishProperty(ctx context.Context, action, propertyID string) error {
	body, err := json.Marshal(PropertyMessage{Action: action, PropertyID: propertyID})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",          // exchange por defecto
		p.queueName, // routing key = nombre de la queue
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
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"action":      action,
		"property_id": propertyID,
	}).Debug("Property message published")
	return nil
}

// Close cierra channel y conexión, juntando los errores de ambos
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// NopPublisher se usa cuando RABBITMQ_URL está vacío
type NopPublisher struct{}

func (NopPublisher) PublishProperty(context.Context, string, string) error { return nil }

func (NopPublisher) Close() error { return nil }

// RecordingPublisher guarda los mensajes en memoria; lo usan los tests
type RecordingPublisher struct {
	mu       sync.Mutex
	Messages []PropertyMessage
}

func (r *RecordingPublisher) PublishProperty(_ context.Context, action, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, PropertyMessage{Action: action, PropertyID: propertyID})
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

// Snapshot devuelve una copia de los mensajes publicados
func (r *RecordingPublisher) Snapshot() []PropertyMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PropertyMessage, len(r.Messages))
	copy(out, r.Messages)
	return out
}
