package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartEventConsumer connects to RabbitMQ, declares the carwash.events
// queue (durable), and starts consuming messages.  Each event is appended
// to logs/booking.log in a single-line, human-friendly format.  The
// function runs a reconnect loop forever; processing errors are logged and
// the offending message rejected so the server keeps operating.
func StartEventConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("event-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("event-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("event-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(eventQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(eventQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("event-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	var line string
	switch env.Type {
	case BookingCreatedEvent{}.Kind():
		var ev BookingCreatedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", env.Type, err)
		}
		user := "guest"
		if ev.UserID != nil {
			user = fmt.Sprintf("%d", *ev.UserID)
		}
		line = fmt.Sprintf("[%s] Booking created | booking_id=%d | user=%s | service_id=%d | service=%q | date=%s %s | customer=%q | total=%.2f\n",
			ev.CreatedAt, ev.BookingID, user, ev.ServiceID, ev.ServiceName, ev.BookingDate, ev.BookingTime, ev.CustomerName, ev.TotalAmount)
	case PaymentCapturedEvent{}.Kind():
		var ev PaymentCapturedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", env.Type, err)
		}
		line = fmt.Sprintf("[%s] Payment captured | booking_id=%d | order_id=%s | capture_id=%s | amount=%.2f\n",
			ev.CompletedAt, ev.BookingID, ev.OrderID, ev.CaptureID, ev.Amount)
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
