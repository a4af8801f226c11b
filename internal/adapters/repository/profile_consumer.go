package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// ProfileCreationRequest is a message asking for a baby profile to be created
// on behalf of a parent, e.g. sent by the identity service after sign-up.
// Profile carries the same candidate fields as POST /babies.
type ProfileCreationRequest struct {
	UserID  string          `json:"user_id"`
	Profile json.RawMessage `json:"profile"`
}

// ProfileCreator is the part of ports.ProfileService the consumer needs
type ProfileCreator interface {
	CreateProfile(ctx context.Context, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error)
}

// deliveryAction is how a processed message is settled
type deliveryAction int

const (
	actionAck deliveryAction = iota
	actionReject
	actionRequeue
)

func (a deliveryAction) String() string {
	switch a {
	case actionAck:
		return "created"
	case actionReject:
		return "rejected"
	default:
		return "requeued"
	}
}

// ProfileConsumer consumes profile creation requests from RabbitMQ
// Messages are processed one at a time (QoS 1); RabbitMQ distributes
// messages across replicas
type ProfileConsumer struct {
	session        *amqpSession
	profiles       ProfileCreator
	reconnectCh    chan struct{}
	stopReconnect  chan struct{}
	consumingCtx   context.Context
	consumingMutex sync.Mutex
	isConsuming    bool
}

// NewProfileConsumer creates a new RabbitMQ consumer for profile creation
func NewProfileConsumer(rabbitMQURL string, queueName string, profiles ProfileCreator) (*ProfileConsumer, error) {
	if queueName == "" {
		queueName = "baby.profile.requests"
	}

	consumer := &ProfileConsumer{
		session:       newAMQPSession(rabbitMQURL, queueName, "Profile consumer"),
		profiles:      profiles,
		reconnectCh:   make(chan struct{}, 1),
		stopReconnect: make(chan struct{}),
	}

	if err := consumer.session.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go consumer.handleReconnection()

	return consumer, nil
}

// handleReconnection reconnects and restarts consuming with the consumer context
func (c *ProfileConsumer) handleReconnection() {
	for {
		select {
		case <-c.reconnectCh:
			if err := c.session.reconnect(); err != nil {
				log.Printf("Profile consumer reconnection failed: %v", err)
				go func() {
					time.Sleep(5 * time.Second)
					c.triggerReconnect()
				}()
				continue
			}
			c.consumingMutex.Lock()
			ctx := c.consumingCtx
			restart := ctx != nil && ctx.Err() == nil && !c.isConsuming
			c.consumingMutex.Unlock()
			if restart {
				if err := c.StartConsuming(ctx); err != nil {
					log.Printf("Profile consumer failed to restart: %v", err)
				}
			}
		case <-c.stopReconnect:
			return
		}
	}
}

func (c *ProfileConsumer) triggerReconnect() {
	select {
	case c.reconnectCh <- struct{}{}:
	default:
	}
}

// StartConsuming starts consuming messages from the queue in a background goroutine
// Only one consumer runs per process
func (c *ProfileConsumer) StartConsuming(ctx context.Context) error {
	c.consumingMutex.Lock()
	if c.isConsuming {
		c.consumingMutex.Unlock()
		log.Println("Profile consumer is already running, skipping duplicate start")
		return nil
	}
	c.isConsuming = true
	c.consumingCtx = ctx
	c.consumingMutex.Unlock()

	msgs, err := c.subscribe()
	if err != nil {
		c.setConsuming(false)
		return err
	}

	go func() {
		defer c.setConsuming(false)

		for {
			select {
			case <-ctx.Done():
				log.Println("Profile consumer context cancelled")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Profile consumer channel closed, attempting reconnection...")
					c.setConsuming(false)
					c.triggerReconnect()
					return
				}
				c.settle(msg, c.process(ctx, msg.Body))
			}
		}
	}()

	return nil
}

func (c *ProfileConsumer) subscribe() (<-chan amqp091.Delivery, error) {
	channel, err := c.session.current()
	if err != nil {
		return nil, err
	}

	if err := channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	consumerTag := fmt.Sprintf("profile-consumer-%d", time.Now().UnixNano())
	msgs, err := channel.Consume(
		c.session.queueName, // queue
		consumerTag,         // consumer tag
		false,               // auto-ack (ack only after the profile is stored)
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("Profile consumer started (tag: %s), waiting for messages on queue: %s", consumerTag, c.session.queueName)
	return msgs, nil
}

func (c *ProfileConsumer) setConsuming(v bool) {
	c.consumingMutex.Lock()
	c.isConsuming = v
	c.consumingMutex.Unlock()
}

// process handles one message body and decides how it is settled.
// Malformed messages and rejected profiles are dropped; anything else is retried.
func (c *ProfileConsumer) process(ctx context.Context, body []byte) deliveryAction {
	start := time.Now()
	action := c.createProfile(ctx, body)
	profileRequestsConsumedTotal.WithLabelValues(action.String()).Inc()
	rabbitMQConsumeDuration.WithLabelValues(action.String()).Observe(time.Since(start).Seconds())
	return action
}

func (c *ProfileConsumer) createProfile(ctx context.Context, body []byte) deliveryAction {
	var req ProfileCreationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("Failed to unmarshal profile creation request: %v", err)
		return actionReject
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		log.Printf("Invalid profile creation request: user_id %q is not a valid UUID", req.UserID)
		return actionReject
	}

	profile, err := c.profiles.CreateProfile(ctx, req.Profile, userID, false)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, domain.ErrForbidden) {
			log.Printf("Profile creation request for user %s rejected: %v", userID, err)
			return actionReject
		}
		log.Printf("Failed to create profile from RabbitMQ message: %v", err)
		return actionRequeue
	}

	log.Printf("Created baby profile from RabbitMQ: id=%s, owner_user_id=%s", profile.ID, profile.OwnerUserID)
	return actionAck
}

// settle acknowledges or rejects a delivery
func (c *ProfileConsumer) settle(msg amqp091.Delivery, action deliveryAction) {
	var err error
	switch action {
	case actionAck:
		err = msg.Ack(false)
	case actionReject:
		err = msg.Nack(false, false)
	default:
		err = msg.Nack(false, true)
	}
	if err != nil {
		log.Printf("Failed to settle profile creation message (%s): %v", action, err)
	}
}

// Close stops reconnection and closes the RabbitMQ connection
// The consuming context is cancelled by main during graceful shutdown
func (c *ProfileConsumer) Close() error {
	close(c.stopReconnect)
	c.setConsuming(false)
	err := c.session.close()
	log.Println("Profile consumer closed")
	return err
}
