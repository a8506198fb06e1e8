// Package sim generates random demo order flow. In a real deployment
// orders would arrive from an upstream system; this stands in for one so
// the engine and the console reporter have something to chew on.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/core"
	"github.com/divitngoc/order-handler/internal/domain"
)

type Producer struct {
	handler  *core.Handler
	seq      *core.Sequence
	symbols  []string
	interval time.Duration
	rng      *rand.Rand
	log      *zap.Logger
}

func NewProducer(handler *core.Handler, seq *core.Sequence, symbols []string, interval time.Duration, log *zap.Logger) *Producer {
	return &Producer{
		handler:  handler,
		seq:      seq,
		symbols:  symbols,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log,
	}
}

// Run submits one random order per interval until the context ends.
func (p *Producer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o := p.produce()
			if err := p.handler.Add(ctx, o); err != nil {
				p.log.Warn("demo order rejected", zap.Uint64("order_id", o.ID), zap.Error(err))
			}
		}
	}
}

// produce builds an order with quantity 1..20 and price 1..50, random side.
func (p *Producer) produce() *domain.Order {
	symbol := p.symbols[p.rng.Intn(len(p.symbols))]
	side := domain.Buy
	if p.rng.Intn(2) == 0 {
		side = domain.Sell
	}
	price := decimal.NewFromInt(int64(p.rng.Intn(50) + 1))
	qty := int64(p.rng.Intn(20) + 1)
	return domain.NewOrder(p.seq.Next(), symbol, side, price, qty)
}
