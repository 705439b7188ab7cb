package repository

import (
	"context"
	"fmt"
	"time"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/domain/repository"
	pkgkafka "TradeStage/pkg/kafka"
)

// KafkaEventPublisher emits stage-transition events, keyed by account id so
// one account's events land on one partition in order.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// transitionEvent is the wire format of a stage-transition event.
type transitionEvent struct {
	AccountID       string `json:"account_id"`
	PreviousBalance string `json:"previous_balance"`
	CurrentBalance  string `json:"current_balance"`
	PreviousStage   string `json:"previous_stage"`
	CurrentStage    string `json:"current_stage"`
	Transition      string `json:"transition"`
	Timestamp       int64  `json:"ts"`
}

func (p *KafkaEventPublisher) PublishTransition(ctx context.Context, rep models.TransitionReport) error {
	ts := rep.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	ev := transitionEvent{
		AccountID:       rep.AccountID,
		PreviousBalance: rep.PreviousBalance.String(),
		CurrentBalance:  rep.CurrentBalance.String(),
		PreviousStage:   string(rep.PreviousStage),
		CurrentStage:    string(rep.CurrentStage),
		Transition:      string(rep.Transition),
		Timestamp:       ts.Unix(),
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(rep.AccountID), ev); err != nil {
		return fmt.Errorf("publish transition: %w", err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
