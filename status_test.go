package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`)
var reservationIDPattern = regexp.MustCompile(`^RES-\d+-[A-Z0-9]{9}$`)

func TestGenerateOrderIDFormat(t *testing.T) {
	id := GenerateOrderID()
	require.Regexp(t, orderIDPattern, id)
}

func TestGenerateOrderIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateOrderID()
		require.Regexp(t, orderIDPattern, id)
		require.False(t, seen[id], "id %s muncul dua kali", id)
		seen[id] = true
	}
}

func TestGenerateReservationIDFormat(t *testing.T) {
	id := GenerateReservationID()
	require.Regexp(t, reservationIDPattern, id)
}

func TestOrderTransitionsForward(t *testing.T) {
	// Rantai normal, termasuk loncat ke depan
	assert.True(t, CanTransitionOrder(OrderPending, OrderConfirmed))
	assert.True(t, CanTransitionOrder(OrderPending, OrderPreparing))
	assert.True(t, CanTransitionOrder(OrderConfirmed, OrderPreparing))
	assert.True(t, CanTransitionOrder(OrderPreparing, OrderReady))
	assert.True(t, CanTransitionOrder(OrderReady, OrderCompleted))
	assert.True(t, CanTransitionOrder(OrderConfirmed, OrderCompleted))
}

func TestOrderTransitionsCancellation(t *testing.T) {
	// cancelled hanya dari pending/confirmed
	assert.True(t, CanTransitionOrder(OrderPending, OrderCancelled))
	assert.True(t, CanTransitionOrder(OrderConfirmed, OrderCancelled))
	assert.False(t, CanTransitionOrder(OrderPreparing, OrderCancelled))
	assert.False(t, CanTransitionOrder(OrderReady, OrderCancelled))
	assert.False(t, CanTransitionOrder(OrderCompleted, OrderCancelled))
}

func TestOrderTransitionsTerminal(t *testing.T) {
	// completed dan cancelled tidak punya jalan keluar, termasuk mundur
	for _, to := range []string{OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled} {
		assert.False(t, CanTransitionOrder(OrderCompleted, to), "completed → %s harus ditolak", to)
		assert.False(t, CanTransitionOrder(OrderCancelled, to), "cancelled → %s harus ditolak", to)
	}
}

func TestOrderTransitionsNoBackward(t *testing.T) {
	assert.False(t, CanTransitionOrder(OrderReady, OrderPreparing))
	assert.False(t, CanTransitionOrder(OrderPreparing, OrderConfirmed))
	assert.False(t, CanTransitionOrder(OrderConfirmed, OrderPending))
}

func TestCanCancelOrder(t *testing.T) {
	assert.True(t, CanCancelOrder(OrderPending))
	assert.True(t, CanCancelOrder(OrderConfirmed))
	assert.False(t, CanCancelOrder(OrderPreparing))
	assert.False(t, CanCancelOrder(OrderReady))
	assert.False(t, CanCancelOrder(OrderCompleted))
	assert.False(t, CanCancelOrder(OrderCancelled))
}

func TestStatusEnumMembership(t *testing.T) {
	assert.True(t, IsValidOrderStatus("preparing"))
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))

	assert.True(t, IsValidReservationStatus("no-show"))
	assert.False(t, IsValidReservationStatus("pending")) // reservasi tidak punya status pending
	assert.False(t, IsValidReservationStatus("waitToBuy"))
}

func TestCanTransitionOrderUnknownState(t *testing.T) {
	assert.False(t, CanTransitionOrder("shipped", OrderCompleted))
	assert.False(t, CanTransitionOrder(OrderPending, "shipped"))
}
