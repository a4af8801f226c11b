package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// errConnectionClosed is returned when no usable channel is available
var errConnectionClosed = errors.New("RabbitMQ connection is closed")

// amqpSession owns one connection and channel bound to a durable queue.
// Publisher and consumer each hold their own session.
type amqpSession struct {
	url        string
	queueName  string
	label      string
	maxRetries int
	retryDelay time.Duration

	mu      sync.RWMutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func newAMQPSession(url, queueName, label string) *amqpSession {
	return &amqpSession{
		url:        url,
		queueName:  queueName,
		label:      label,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// connect dials RabbitMQ and declares the queue (idempotent)
func (s *amqpSession) connect() error {
	var conn *amqp091.Connection
	var err error
	for i := 0; i < s.maxRetries; i++ {
		conn, err = amqp091.Dial(s.url)
		if err == nil {
			break
		}
		log.Printf("%s: failed to connect to RabbitMQ (attempt %d/%d): %v", s.label, i+1, s.maxRetries, err)
		if i < s.maxRetries-1 {
			time.Sleep(s.retryDelay)
		}
	}
	if err != nil {
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	_, err = channel.QueueDeclare(
		s.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", s.queueName, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.channel = channel
	s.mu.Unlock()

	log.Printf("%s connected to RabbitMQ, queue: %s", s.label, s.queueName)
	return nil
}

// current returns the open channel, or errConnectionClosed
func (s *amqpSession) current() (*amqp091.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.channel == nil || s.channel.IsClosed() || s.conn == nil || s.conn.IsClosed() {
		return nil, errConnectionClosed
	}
	return s.channel, nil
}

// reconnect drops the current connection and dials again
func (s *amqpSession) reconnect() error {
	log.Printf("%s: attempting to reconnect to RabbitMQ...", s.label)
	s.close()
	return s.connect()
}

func (s *amqpSession) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.channel != nil && !s.channel.IsClosed() {
		if cerr := s.channel.Close(); cerr != nil {
			log.Printf("%s: error closing RabbitMQ channel: %v", s.label, cerr)
		}
	}
	if s.conn != nil && !s.conn.IsClosed() {
		err = s.conn.Close()
	}
	s.channel = nil
	s.conn = nil
	return err
}
