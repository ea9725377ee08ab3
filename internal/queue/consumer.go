package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerLogFile = "logs/reservations.log"

// StartSeatEventConsumer connects to RabbitMQ, declares the
// seat.reserved and seat.released queues (durable), and consumes both,
// appending each event to logs/reservations.log in a single-line
// format.  It runs a reconnect loop with exponential backoff and never
// returns; processing errors are logged and the offending message is
// rejected so the server keeps operating.  Intended to run in its own
// goroutine.
func StartSeatEventConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("seat-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("seat-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("seat-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{reservedQueueName, releasedQueueName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	reserved, err := ch.Consume(reservedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", reservedQueueName, err)
	}
	released, err := ch.Consume(releasedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", releasedQueueName, err)
	}

	for {
		select {
		case d, ok := <-reserved:
			if !ok {
				return fmt.Errorf("%s channel closed", reservedQueueName)
			}
			ackOrReject(d, handleReserved(d.Body))
		case d, ok := <-released:
			if !ok {
				return fmt.Errorf("%s channel closed", releasedQueueName)
			}
			ackOrReject(d, handleReleased(d.Body))
		}
	}
}

func ackOrReject(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("seat-consumer: handle message failed: %v", err)
		_ = d.Reject(false)
		return
	}
	_ = d.Ack(false)
}

func handleReserved(body []byte) error {
	var ev SeatReservedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode reserved event: %w", err)
	}
	line := fmt.Sprintf("%s RESERVED seat=%s user=%s reg=%s expires=%s",
		time.Now().UTC().Format(time.RFC3339), ev.SeatKey, ev.UserName, ev.RegistrationNumber, ev.ExpiresAt)
	return appendLogLine(line)
}

func handleReleased(body []byte) error {
	var ev SeatReleasedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode released event: %w", err)
	}
	line := fmt.Sprintf("%s RELEASED seat=%s user=%s reg=%s",
		time.Now().UTC().Format(time.RFC3339), ev.SeatKey, ev.UserName, ev.RegistrationNumber)
	return appendLogLine(line)
}

// appendLogLine appends one line to the consumer log file, creating
// the directory on first use.
func appendLogLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(consumerLogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(consumerLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}
	return nil
}
