package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/ports"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// RabbitMQPublisher implements AlertPublisher for publishing alerts to RabbitMQ
// Includes retry logic and circuit breaker for resilience
type RabbitMQPublisher struct {
	session       *amqpSession
	cb            *gobreaker.CircuitBreaker
	reconnectCh   chan struct{}
	stopReconnect chan struct{}
}

// NewRabbitMQPublisher creates a new RabbitMQ publisher with circuit breaker
func NewRabbitMQPublisher(rabbitMQURL string, queueName string, settings gobreaker.Settings) (*RabbitMQPublisher, error) {
	if queueName == "" {
		queueName = "baby_alerts"
	}

	publisher := &RabbitMQPublisher{
		session:       newAMQPSession(rabbitMQURL, queueName, "Alert publisher"),
		cb:            newBreaker(settings, "rabbitmq."+queueName),
		reconnectCh:   make(chan struct{}, 1),
		stopReconnect: make(chan struct{}),
	}

	if err := publisher.session.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go publisher.handleReconnection()

	return publisher, nil
}

// handleReconnection handles automatic reconnection to RabbitMQ
func (p *RabbitMQPublisher) handleReconnection() {
	for {
		select {
		case <-p.reconnectCh:
			if err := p.session.reconnect(); err != nil {
				log.Printf("Alert publisher reconnection failed: %v", err)
			}
		case <-p.stopReconnect:
			return
		}
	}
}

func (p *RabbitMQPublisher) triggerReconnect() {
	select {
	case p.reconnectCh <- struct{}{}:
	default:
	}
}

// PublishAlert publishes an alert to the alerts queue
func (p *RabbitMQPublisher) PublishAlert(ctx context.Context, alert *domain.Alert) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.publishWithRetry(ctx, alert)
	})
	return err
}

// publishWithRetry publishes with retry logic
func (p *RabbitMQPublisher) publishWithRetry(ctx context.Context, alert *domain.Alert) error {
	startTime := time.Now()

	logEntry := map[string]interface{}{
		"event":              "alert_publish_attempt",
		"baby_id":            alert.BabyID.String(),
		"event_id":           alert.EventID.String(),
		"alert_type":         alert.AlertType,
		"temperature_status": string(alert.TemperatureStatus),
		"timestamp":          time.Now().Format(time.RFC3339),
	}
	jsonBytes, _ := json.Marshal(logEntry)
	log.Printf("%s", string(jsonBytes))

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	var lastErr error
	for i := 0; i < p.session.maxRetries; i++ {
		ch, err := p.session.current()
		if err != nil {
			lastErr = err
			p.triggerReconnect()
			time.Sleep(p.session.retryDelay)
			continue
		}

		err = ch.PublishWithContext(
			ctx,
			"",                  // exchange
			p.session.queueName, // routing key
			false,               // mandatory
			false,               // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp091.Persistent,
				Timestamp:    time.Now(),
			},
		)
		if err == nil {
			if latency := time.Since(startTime); latency > 15*time.Second {
				log.Printf("Warning: Alert publishing latency exceeded 15s: %v", latency)
			}
			return nil
		}

		lastErr = err
		log.Printf("Failed to publish alert (attempt %d/%d): %v", i+1, p.session.maxRetries, err)
		if i < p.session.maxRetries-1 {
			p.triggerReconnect()
			time.Sleep(p.session.retryDelay)
		}
	}

	return fmt.Errorf("failed to publish alert after %d retries: %w", p.session.maxRetries, lastErr)
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	close(p.stopReconnect)
	return p.session.close()
}

// Ensure RabbitMQPublisher implements the interface
var _ ports.AlertPublisher = (*RabbitMQPublisher)(nil)
