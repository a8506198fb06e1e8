package http

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divitngoc/order-handler/internal/api/dto"
	"github.com/divitngoc/order-handler/internal/core"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/middleware"
	"github.com/divitngoc/order-handler/internal/port"
)

// Server exposes the order handler over HTTP. It keeps an id index of
// orders it accepted so modify/cancel requests can be resolved back to the
// live order object.
type Server struct {
	handler  *core.Handler
	seq      *core.Sequence
	repo     port.Repository
	gatherer prometheus.Gatherer

	orders sync.Map // order id -> *domain.Order
}

func NewServer(handler *core.Handler, seq *core.Sequence, repo port.Repository, gatherer prometheus.Gatherer) *Server {
	return &Server{
		handler:  handler,
		seq:      seq,
		repo:     repo,
		gatherer: gatherer,
	}
}

func (s *Server) Run(addr string) error {
	return s.router().Run(addr)
}

// Forget drops an order from the id index once it has left the book.
// Wired to the matcher's removed callback so filled orders don't pile up.
func (s *Server) Forget(id uint64) {
	s.orders.Delete(id)
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	rl := middleware.NewRateLimiter(100*time.Millisecond, 5)
	r.Use(rl.Middleware())

	r.POST("/orders", s.submitOrder)
	r.POST("/orders/modify", s.modifyOrder)
	r.POST("/orders/cancel", s.cancelOrder)
	r.GET("/orders/:id/trades", s.getTrades)
	r.GET("/quote", s.getQuote)
	r.GET("/orderbook", s.getOrderbook)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func (s *Server) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateOrder(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o := domain.NewOrder(s.seq.Next(), req.Symbol, req.Side, req.Price, req.Quantity)
	// indexed before matching: a fast fill prunes the id via Forget, and
	// storing afterwards would resurrect it
	s.orders.Store(o.ID, o)
	if err := s.handler.Add(c.Request.Context(), o); err != nil {
		s.orders.Delete(o.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SubmitOrderResponse{
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Side:     o.Side,
		Price:    o.Price(),
		Quantity: o.Quantity(),
	})
}

func (s *Server) modifyOrder(c *gin.Context) {
	var req dto.ModifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, ok := s.orders.Load(req.OrderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	existing := v.(*domain.Order)

	newPrice := req.NewPrice
	if newPrice.IsZero() {
		newPrice = existing.Price()
	}
	replacement := domain.NewOrder(existing.ID, existing.Symbol, existing.Side, newPrice, req.NewQty)

	if err := s.handler.Modify(c.Request.Context(), existing, replacement); err != nil {
		status := http.StatusInternalServerError
		if err == domain.ErrModificationLimit {
			status = http.StatusConflict
		}
		c.JSON(status, dto.ModifyOrderResponse{OrderID: req.OrderID, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ModifyOrderResponse{OrderID: req.OrderID, Modified: true})
}

func (s *Server) cancelOrder(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, ok := s.orders.Load(req.OrderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	s.handler.Remove(c.Request.Context(), v.(*domain.Order))
	s.orders.Delete(req.OrderID)
	c.JSON(http.StatusOK, dto.CancelOrderResponse{OrderID: req.OrderID, Cancelled: true})
}

func (s *Server) getTrades(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	if s.repo == nil {
		c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: []dto.Trade{}})
		return
	}
	trades, err := s.repo.LoadTradesForOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: convertTrades(trades)})
}

func (s *Server) getQuote(c *gin.Context) {
	symbol := c.Query("symbol")
	side := domain.Side(c.Query("side"))
	qty, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil || symbol == "" || !side.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol, side and quantity are required"})
		return
	}

	price, err := s.handler.Quote(symbol, qty, side)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.QuoteResponse{
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
	})
}

func (s *Server) getOrderbook(c *gin.Context) {
	symbol := c.Query("symbol")
	snap, ok := s.handler.Snapshot(c.Request.Context(), symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol not found"})
		return
	}
	c.JSON(http.StatusOK, dto.GetOrderbookResponse{
		Symbol:    snap.Symbol,
		Bids:      convertLevels(snap.Bids),
		Asks:      convertLevels(snap.Asks),
		Timestamp: snap.Timestamp,
	})
}

func convertLevels(levels []domain.LevelSummary) []dto.Level {
	res := make([]dto.Level, len(levels))
	for i, l := range levels {
		res[i] = dto.Level{
			Price:      l.Price,
			Quantity:   l.Quantity,
			OrderCount: l.OrderCount,
		}
	}
	return res
}

func convertTrades(trades []*domain.Trade) []dto.Trade {
	res := make([]dto.Trade, len(trades))
	for i, t := range trades {
		res[i] = dto.Trade{
			ID:        t.ID,
			Symbol:    t.Symbol,
			BuyOrder:  t.BuyOrder,
			SellOrder: t.SellOrder,
			Price:     t.Price,
			Quantity:  t.Quantity,
			Timestamp: t.Timestamp,
		}
	}
	return res
}

func validateOrder(req *dto.SubmitOrderRequest) error {
	if !req.Side.Valid() {
		return fmt.Errorf("invalid side: %s", req.Side)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	if req.Price.Sign() <= 0 {
		return fmt.Errorf("price must be > 0")
	}
	return nil
}
