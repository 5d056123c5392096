package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// =======================
// 🔁 Status Workflow
// =======================

// Status order
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Status reservasi (tidak ada "pending", reservasi langsung confirmed)
const (
	ReservationConfirmed = "confirmed"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationNoShow    = "no-show"
)

// Status pembayaran (field cadangan, tidak pernah ditransisikan)
const PaymentPending = "pending"

// orderTransitions memetakan status sekarang ke status tujuan yang sah.
// Order hanya boleh maju di rantai pending → confirmed → preparing → ready
// → completed (boleh loncat ke depan), dan cancelled hanya dari
// pending/confirmed. completed dan cancelled terminal.
var orderTransitions = map[string]map[string]bool{
	OrderPending: {
		OrderConfirmed: true,
		OrderPreparing: true,
		OrderReady:     true,
		OrderCompleted: true,
		OrderCancelled: true,
	},
	OrderConfirmed: {
		OrderPreparing: true,
		OrderReady:     true,
		OrderCompleted: true,
		OrderCancelled: true,
	},
	OrderPreparing: {
		OrderReady:     true,
		OrderCompleted: true,
	},
	OrderReady: {
		OrderCompleted: true,
	},
	OrderCompleted: {},
	OrderCancelled: {},
}

var validOrderStatuses = map[string]bool{
	OrderPending:   true,
	OrderConfirmed: true,
	OrderPreparing: true,
	OrderReady:     true,
	OrderCompleted: true,
	OrderCancelled: true,
}

var validReservationStatuses = map[string]bool{
	ReservationConfirmed: true,
	ReservationCompleted: true,
	ReservationCancelled: true,
	ReservationNoShow:    true,
}

// IsValidOrderStatus mengecek keanggotaan enum status order
func IsValidOrderStatus(status string) bool {
	return validOrderStatuses[status]
}

// IsValidReservationStatus mengecek keanggotaan enum status reservasi
func IsValidReservationStatus(status string) bool {
	return validReservationStatuses[status]
}

// CanTransitionOrder mengecek apakah perpindahan status order sah
// menurut tabel transisi, bukan sekadar keanggotaan enum.
func CanTransitionOrder(from, to string) bool {
	allowed, ok := orderTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// CanCancelOrder: pembatalan (langsung maupun lewat cancel-request)
// hanya boleh selama order masih pending atau confirmed.
func CanCancelOrder(status string) bool {
	return status == OrderPending || status == OrderConfirmed
}

// =======================
// 🔑 ID Generator
// =======================

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomIDSuffix(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand gagal praktis tidak terjadi, fallback ke huruf pertama
			b[i] = idAlphabet[0]
			continue
		}
		b[i] = idAlphabet[num.Int64()]
	}
	return string(b)
}

// GenerateOrderID menghasilkan id unik bentuk ORD-<timestamp>-<9 alnum kapital>
func GenerateOrderID() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomIDSuffix(9))
}

// GenerateReservationID menghasilkan id unik bentuk RES-<timestamp>-<9 alnum kapital>
func GenerateReservationID() string {
	return fmt.Sprintf("RES-%d-%s", time.Now().UnixMilli(), randomIDSuffix(9))
}
