package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product event types, also used as AMQP routing keys.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent is published after a product has been created, updated or deleted.
type ProductEvent struct {
	EventID    string           `json:"event_id"`
	Type       string           `json:"type"`
	ProductID  int64            `json:"product_id"`
	Name       string           `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
