package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the engine's counters. A nil *Metrics is valid and
// records nothing, so tests can skip it.
type Metrics struct {
	OrdersSubmitted prometheus.Counter
	OrdersModified  prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrdersRemoved   prometheus.Counter
	TradesExecuted  prometheus.Counter
	QuantityTraded  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_orders_submitted_total",
			Help: "Orders accepted into a book.",
		}),
		OrdersModified: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_orders_modified_total",
			Help: "Successful order modifications.",
		}),
		OrdersCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_orders_cancelled_total",
			Help: "Orders cancelled by callers.",
		}),
		OrdersRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_orders_removed_total",
			Help: "Orders excised from a book, filled or cancelled.",
		}),
		TradesExecuted: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_trades_executed_total",
			Help: "Fill events produced by the matching engine.",
		}),
		QuantityTraded: f.NewCounter(prometheus.CounterOpts{
			Name: "orderhandler_quantity_traded_total",
			Help: "Total quantity exchanged across all fills.",
		}),
	}
}

func (m *Metrics) OrderSubmitted() {
	if m != nil {
		m.OrdersSubmitted.Inc()
	}
}

func (m *Metrics) OrderModified() {
	if m != nil {
		m.OrdersModified.Inc()
	}
}

func (m *Metrics) OrderCancelled() {
	if m != nil {
		m.OrdersCancelled.Inc()
	}
}

func (m *Metrics) OrderRemoved() {
	if m != nil {
		m.OrdersRemoved.Inc()
	}
}

func (m *Metrics) TradeExecuted(qty int64) {
	if m == nil {
		return
	}
	m.TradesExecuted.Inc()
	m.QuantityTraded.Add(float64(qty))
}
