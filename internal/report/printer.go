// Package report renders per-symbol book depth as a console table, the
// way an operator would watch a market open.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/divitngoc/order-handler/internal/core"
	"github.com/divitngoc/order-handler/internal/domain"
)

type Reporter struct {
	handler  *core.Handler
	symbols  []string
	interval time.Duration
	out      io.Writer

	header *color.Color
}

func NewReporter(handler *core.Handler, symbols []string, interval time.Duration) *Reporter {
	return &Reporter{
		handler:  handler,
		symbols:  symbols,
		interval: interval,
		out:      os.Stdout,
		header:   color.New(color.FgCyan, color.Bold),
	}
}

// Run prints each configured symbol's depth once per interval.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, symbol := range r.symbols {
				if snap, ok := r.handler.Snapshot(ctx, symbol); ok {
					r.print(snap)
				}
			}
		}
	}
}

// print renders both ladders side by side, one row per depth level:
//
//	Order Count  Ask Quantity  Ask Price  Level  Bid Price  Bid Quantity  Order Count
//	1            7             25         1      13         3             2
func (r *Reporter) print(snap domain.BookSnapshot) {
	r.header.Fprintf(r.out, "================ SYMBOL [%s] ================\n", snap.Symbol)

	w := tabwriter.NewWriter(r.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Order Count\tAsk Quantity\tAsk Price\tLevel\tBid Price\tBid Quantity\tOrder Count")

	depth := max(len(snap.Bids), len(snap.Asks))
	for i := 0; i < depth; i++ {
		ask := levelAt(snap.Asks, i)
		bid := levelAt(snap.Bids, i)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			countCol(ask), qtyCol(ask), priceCol(ask),
			i+1,
			priceCol(bid), qtyCol(bid), countCol(bid),
		)
	}
	w.Flush()
}

func levelAt(levels []domain.LevelSummary, i int) *domain.LevelSummary {
	if i < len(levels) {
		return &levels[i]
	}
	return nil
}

func countCol(l *domain.LevelSummary) string {
	if l == nil {
		return "-"
	}
	return strconv.Itoa(l.OrderCount)
}

func qtyCol(l *domain.LevelSummary) string {
	if l == nil {
		return "-"
	}
	return strconv.FormatInt(l.Quantity, 10)
}

func priceCol(l *domain.LevelSummary) string {
	if l == nil {
		return "-"
	}
	return l.Price.String()
}
