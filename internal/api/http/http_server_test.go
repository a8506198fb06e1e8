package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/adapter/in_memory"
	"github.com/divitngoc/order-handler/internal/api/dto"
	"github.com/divitngoc/order-handler/internal/book"
	"github.com/divitngoc/order-handler/internal/core"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/locks"
)

// inlineSubmit matches synchronously so requests observe their own fills.
type inlineSubmit struct{ m *core.Matcher }

func (s inlineSubmit) Submit(ctx context.Context, o *domain.Order) error {
	s.m.Execute(ctx, o)
	return nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	books := book.NewRegistry()
	lockReg := locks.NewRegistry()
	repo := in_memory.NewRepo()
	matcher := core.NewMatcher(books, lockReg, repo, nil, zap.NewNop())
	handler := core.NewHandler(books, lockReg, inlineSubmit{matcher}, repo, nil, nil, zap.NewNop())

	srv := NewServer(handler, core.NewSequence(), repo, nil)
	matcher.OnRemoved(func(o *domain.Order) { srv.Forget(o.ID) })
	return srv, srv.router()
}

var clientSeq int

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	clientSeq++
	req.Header.Set("X-Client-ID", fmt.Sprintf("client-%d", clientSeq))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func submit(t *testing.T, r *gin.Engine, side string, price, qty int) dto.SubmitOrderResponse {
	t.Helper()
	body := fmt.Sprintf(`{"symbol":"IGG","side":%q,"price":%d,"quantity":%d}`, side, price, qty)
	w := doJSON(t, r, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.SubmitOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCancelPrunesOrderIndex(t *testing.T) {
	_, r := newTestServer(t)

	created := submit(t, r, "BUY", 50, 10)

	w := doJSON(t, r, http.MethodPost, "/orders/cancel",
		fmt.Sprintf(`{"order_id":%d}`, created.OrderID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the id is gone from the index, so a modify can't resolve it
	w = doJSON(t, r, http.MethodPost, "/orders/modify",
		fmt.Sprintf(`{"order_id":%d,"new_qty":5}`, created.OrderID))
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestFilledOrdersPrunedFromIndex(t *testing.T) {
	srv, r := newTestServer(t)

	sell := submit(t, r, "SELL", 50, 10)
	buy := submit(t, r, "BUY", 50, 10)

	for _, id := range []uint64{sell.OrderID, buy.OrderID} {
		_, loaded := srv.orders.Load(id)
		require.False(t, loaded, "order %d should have been pruned after filling", id)
	}

	w := doJSON(t, r, http.MethodPost, "/orders/cancel",
		fmt.Sprintf(`{"order_id":%d}`, sell.OrderID))
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestMissingClientIDRejected(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/orderbook?symbol=IGG", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderbookRoute(t *testing.T) {
	_, r := newTestServer(t)

	submit(t, r, "SELL", 52, 7)

	w := doJSON(t, r, http.MethodGet, "/orderbook?symbol=IGG", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.GetOrderbookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Asks, 1)
	require.EqualValues(t, 7, resp.Asks[0].Quantity)

	w = doJSON(t, r, http.MethodGet, "/orderbook?symbol=NOPE", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
