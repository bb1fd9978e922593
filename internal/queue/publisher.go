package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movies-api/internal/metrics"
)

// Publisher sends movie events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev MovieEvent) error
}

// AMQPPublisher publishes every event on its own connection so a broker
// restart never leaves the API holding a dead channel.  Errors are logged
// and returned; callers are free to ignore them.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// Publish marshals ev and sends it to MovieEventsQueue as a persistent
// message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev MovieEvent) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			slog.Warn("rabbitmq: publish movie event failed", "type", ev.Type, "movie_id", ev.MovieID, "error", err)
		}
		metrics.EventsPublishedTotal.WithLabelValues(string(ev.Type), result).Inc()
	}()

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",               // default exchange
		MovieEventsQueue, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         string(ev.Type),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// declare makes sure the durable events queue exists.
func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		MovieEventsQueue, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	)
	return err
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, MovieEvent) error { return nil }
