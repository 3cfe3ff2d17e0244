// Package orders archives completed orders from the checkout event stream.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

type Consumer struct {
	repo   OrderRepository
	reader *kafka.Reader
}

func NewConsumer(repo OrderRepository, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-completed",
		GroupID:  "order-archiver",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{repo: repo, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("error reading message: %v", err)
			continue
		}
		c.handle(ctx, m)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

// handle archives one order-completed event. Malformed payloads and
// duplicates are logged and skipped so the partition keeps moving.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) {
	var order domain.Order
	if err := json.Unmarshal(m.Value, &order); err != nil {
		log.Printf("error parsing order event: %v", err)
		return
	}

	if order.ID == uuid.Nil {
		log.Printf("order event without id, skipping")
		return
	}

	if err := c.repo.CreateOrder(ctx, &order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			log.Printf("order %s already archived, skipping", order.ID)
			return
		}
		log.Printf("failed to archive order %s: %v", order.ID, err)
		return
	}

	log.Printf("order %s archived for user %s", order.ID, order.UserID)
}
