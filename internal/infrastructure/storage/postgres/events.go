package postgres

import (
	"context"

	"caixa/internal/domain/sales"
)

// SaleEventPublisher adapts the transactional outbox to the sales
// package's event contract. Events are written in the same transaction
// as the sale itself and relayed asynchronously.
type SaleEventPublisher struct {
	outbox *OutboxPublisher
}

// NewSaleEventPublisher creates a new sale event publisher.
func NewSaleEventPublisher(outbox *OutboxPublisher) *SaleEventPublisher {
	return &SaleEventPublisher{outbox: outbox}
}

// SaleCompleted records a SaleCompleted event.
func (p *SaleEventPublisher) SaleCompleted(ctx context.Context, sale *sales.Sale) error {
	return p.outbox.Publish(ctx, DomainEvent{
		AggregateType: "Sale",
		AggregateID:   sale.ID,
		EventType:     "SaleCompleted",
		Payload:       sale,
	})
}

// SaleCancelled records a SaleCancelled event.
func (p *SaleEventPublisher) SaleCancelled(ctx context.Context, sale *sales.Sale) error {
	return p.outbox.Publish(ctx, DomainEvent{
		AggregateType: "Sale",
		AggregateID:   sale.ID,
		EventType:     "SaleCancelled",
		Payload:       sale,
	})
}

// Ensure interface compliance
var _ sales.EventPublisher = (*SaleEventPublisher)(nil)
