package domain

import "errors"

var (
	// ErrModificationLimit is returned when an order has already been
	// modified more than four times. The order and book are left unchanged.
	ErrModificationLimit = errors.New("order modification limit exceeded")

	// ErrUnknownSide is returned when a side outside {BUY, SELL} reaches
	// the book. Should be unreachable behind input validation.
	ErrUnknownSide = errors.New("unknown order side")
)
