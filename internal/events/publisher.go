package events

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"bytecore/internal/models"
)

// Publisher fans persisted orders out to a RabbitMQ exchange so downstream
// consumers (fulfilment, analytics) can react. Publishing is best-effort from
// the checkout path: a broker outage never blocks or reverses a placement.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

func NewPublisher(url, exchange, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	p := &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) setup() error {
	if err := p.channel.ExchangeDeclare(
		p.exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	return p.channel.QueueBind(p.queue, "", p.exchange, false, nil)
}

type orderPlacedEvent struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId,omitempty"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderPlaced publishes an order-created event for a persisted order.
func (p *Publisher) OrderPlaced(order models.Order) error {
	event := orderPlacedEvent{
		OrderID:       order.ID.Hex(),
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
	}
	if order.UserID != nil {
		event.UserID = order.UserID.Hex()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Println("[EVENTS] [WARN] channel close failed:", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			log.Println("[EVENTS] [WARN] connection close failed:", err)
		}
	}
}
