package service

import (
	"encoding/json"
	"fmt"
	"time"

	"doodh-waitlist/model"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// WaitlistJoinedEvent is published once per new waitlist entry
type WaitlistJoinedEvent struct {
	EntryID    string    `json:"entry_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Pincode    string    `json:"pincode"`
	VerifiedAt time.Time `json:"verified_at"`
}

type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaProducer builds a sync producer that waits for all in-sync replicas
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	return sarama.NewSyncProducer(brokers, cfg)
}

func NewEventPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *EventPublisher) PublishJoined(entry *model.WaitlistEntry) error {
	payload, err := json.Marshal(WaitlistJoinedEvent{
		EntryID:    entry.ID.String(),
		Name:       entry.Name,
		Email:      entry.Email,
		Phone:      entry.Phone,
		Pincode:    entry.Pincode,
		VerifiedAt: entry.VerifiedAt,
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(entry.Phone),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}
	p.logger.Info("waitlist event published",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
