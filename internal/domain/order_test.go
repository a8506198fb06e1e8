package domain

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSide(t *testing.T) {
	require.True(t, Buy.Valid())
	require.True(t, Sell.Valid())
	require.False(t, Side("HOLD").Valid())

	opp, err := Buy.Opposite()
	require.NoError(t, err)
	require.Equal(t, Sell, opp)
	opp, err = Sell.Opposite()
	require.NoError(t, err)
	require.Equal(t, Buy, opp)

	_, err = Side("HOLD").Opposite()
	require.ErrorIs(t, err, ErrUnknownSide)
}

func TestTakeUpToBounds(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	require.EqualValues(t, 3, o.TakeUpTo(3))
	require.EqualValues(t, 7, o.Quantity())
	// asking for more than remains takes only what is there
	require.EqualValues(t, 7, o.TakeUpTo(100))
	require.EqualValues(t, 0, o.Quantity())
	require.EqualValues(t, 0, o.TakeUpTo(1))
	require.EqualValues(t, 0, o.TakeUpTo(0))
}

func TestTakeUpToNeverOverdraws(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 1000)

	var taken atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				got := o.TakeUpTo(3)
				if got == 0 {
					return
				}
				taken.Add(got)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1000, taken.Load())
	require.EqualValues(t, 0, o.Quantity())
}

func TestRefundRestoresQuantity(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	require.EqualValues(t, 10, o.TakeUpTo(10))
	o.Refund(4)
	require.EqualValues(t, 4, o.Quantity())
}

func TestBeforeOrdersByArrivalThenID(t *testing.T) {
	a := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	b := NewOrder(2, "IGG", Buy, decimal.NewFromInt(50), 10)
	// a arrived no later than b, with the id breaking an exact tie
	require.True(t, a.Before(b))
	require.False(t, b.Before(a))
}

func TestRestampMovesArrivalForward(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	was := o.ArrivalTime()
	time.Sleep(time.Millisecond)
	o.Restamp()
	require.True(t, o.ArrivalTime().After(was))
}

func TestModificationCounter(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	require.EqualValues(t, 0, o.Modifications())
	o.RecordModification()
	o.RecordModification()
	require.EqualValues(t, 2, o.Modifications())
}

func TestSetPriceVisible(t *testing.T) {
	o := NewOrder(1, "IGG", Buy, decimal.NewFromInt(50), 10)
	o.SetPrice(decimal.NewFromInt(51))
	require.True(t, o.Price().Equal(decimal.NewFromInt(51)))
}
