package main

import (
	"time"
)

type ProductModel struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"` // informasi saja, tidak pernah dikurangi saat order
	IsAvailable bool      `json:"is_available"`
	IsArchived  bool      `json:"is_archived"` // soft delete, tidak tampil di listing default
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItemModel adalah snapshot produk saat dimasukkan ke keranjang.
// Harga/nama tidak ikut berubah kalau produknya diubah admin belakangan.
type CartItemModel struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ProductID   int       `json:"product_id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Quantity    int       `json:"quantity"`
	Size        string    `json:"size"`
	Temperature string    `json:"temperature"` // hot / iced, boleh kosong
	Image       string    `json:"image"`
	AddedAt     time.Time `json:"added_at"`
}

// CustomerInfo adalah snapshot data pemesan yang disimpan di order/reservasi,
// bukan referensi hidup ke tabel users.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type OrderModel struct {
	OrderID           string       `json:"order_id"` // ORD-<timestamp>-<random>, unik dan tidak pernah berubah
	UserID            int          `json:"user_id"`
	Customer          CustomerInfo `json:"customer_info"`
	TotalPrice        int          `json:"total_price"`
	Status            string       `json:"status"`         // pending, confirmed, preparing, ready, completed, cancelled
	PaymentStatus     string       `json:"payment_status"` // selalu pending, field cadangan
	CancelRequested   bool         `json:"cancel_requested"`
	CancelRequestedAt *time.Time   `json:"cancel_requested_at"` // NULLable
	Notes             string       `json:"notes"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// OrderItemModel dibekukan saat checkout, bentuknya sama dengan item keranjang.
type OrderItemModel struct {
	ID          int    `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   int    `json:"product_id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Temperature string `json:"temperature"`
	Image       string `json:"image"`
}

type ReservationModel struct {
	ReservationID   string       `json:"reservation_id"` // RES-<timestamp>-<random>
	UserID          int          `json:"user_id"`
	Customer        CustomerInfo `json:"customer_info"`
	Date            string       `json:"date"` // dua string terpisah, tidak digabung jadi satu waktu
	Time            string       `json:"time"`
	Guests          int          `json:"guests"`   // 1-20
	TableID         *string      `json:"table_id"` // NULLable
	Status          string       `json:"status"`   // confirmed, completed, cancelled, no-show
	SpecialRequests string       `json:"special_requests"`
	CancelledAt     *time.Time   `json:"cancelled_at"` // NULLable, selalu terisi saat status cancelled
	CreatedAt       time.Time    `json:"created_at"`
}

// LoginLogModel adalah catatan audit sekali tulis, tidak pernah diubah
// atau dihapus oleh aplikasi.
type LoginLogModel struct {
	ID            int       `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Status        string    `json:"status"` // success / failed
	IP            string    `json:"ip"`
	Device        string    `json:"device"`
	UserAgent     string    `json:"user_agent"`
	FailureReason string    `json:"failure_reason"`
	CreatedAt     time.Time `json:"created_at"`
}
