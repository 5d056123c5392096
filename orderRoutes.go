package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// =========================
// 📦 Order Management
// =========================
func OrderRoutes(r *gin.Engine, db *sql.DB) {
	// 👤 Customer: buat order, lihat order sendiri, pembatalan
	customerOrder := r.Group("/api/orders")
	customerOrder.Use(AuthMiddleware(), RoleMiddleware("customer"))
	{
		// Checkout dari keranjang
		customerOrder.POST("/create", func(c *gin.Context) {
			CreateOrder(c, db)
		})

		// Lihat semua order milik user saat ini (storefront polling status dari sini)
		customerOrder.GET("/my-orders", func(c *gin.Context) {
			GetMyOrders(c, db)
		})

		// Pembatalan langsung oleh customer (bukan hard delete, status jadi cancelled)
		customerOrder.DELETE("/:id", func(c *gin.Context) {
			CancelOwnOrder(c, db)
		})

		// Jalur pengajuan pembatalan yang menunggu persetujuan back office
		customerOrder.POST("/:id/cancel-request", func(c *gin.Context) {
			RequestOrderCancellation(c, db)
		})
	}

	// 🔐 Back office: kelola status, tolak pengajuan batal, POS
	adminOrder := r.Group("/api/orders")
	adminOrder.Use(AuthMiddleware(), BackOfficeMiddleware())
	{
		adminOrder.GET("/admin/all", func(c *gin.Context) {
			GetAllOrders(c, db)
		})
		adminOrder.PATCH("/:id/status", func(c *gin.Context) {
			UpdateOrderStatus(c, db)
		})
		adminOrder.PATCH("/:id/reject-cancel", func(c *gin.Context) {
			RejectOrderCancellation(c, db)
		})
		// Order walk-in dari kasir, tanpa keranjang
		adminOrder.POST("/admin/pos", func(c *gin.Context) {
			CreatePOSOrder(c, db)
		})
	}

	// Detail order: pemilik atau back office
	detail := r.Group("/api/orders")
	detail.Use(AuthMiddleware())
	{
		detail.GET("/:id", func(c *gin.Context) {
			GetOrderByID(c, db)
		})
	}
}

// ++++++++++++++++++++++++
//
//	Order HELPER
//
// ++++++++++++++++++++++++

func scanOrder(row *sql.Row) (OrderModel, error) {
	var o OrderModel
	err := row.Scan(
		&o.OrderID, &o.UserID,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.TotalPrice, &o.Status, &o.PaymentStatus,
		&o.CancelRequested, &o.CancelRequestedAt,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const orderColumns = `order_id, user_id, customer_name, customer_email, customer_phone, customer_address,
		total_price, status, payment_status, cancel_requested, cancel_requested_at, notes, created_at, updated_at`

func loadOrder(db *sql.DB, orderID string) (OrderModel, error) {
	return scanOrder(db.QueryRow(`
		SELECT `+orderColumns+`
		FROM orders WHERE order_id = ?
	`, orderID))
}

func loadOrderItems(db *sql.DB, orderID string) ([]OrderItemModel, error) {
	rows, err := db.Query(`
		SELECT id, order_id, product_id, name, price, quantity, size, temperature, image
		FROM order_items
		WHERE order_id = ?
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItemModel{}
	for rows.Next() {
		var item OrderItemModel
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price,
			&item.Quantity, &item.Size, &item.Temperature, &item.Image); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ++++++++++++++++++++++++
//
//	Order CREATE (checkout)
//
// ++++++++++++++++++++++++

type OrderItemInput struct {
	ProductID   int    `json:"product_id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Temperature string `json:"temperature"`
	Image       string `json:"image"`
}

type CreateOrderInput struct {
	Items      []OrderItemInput `json:"items"`
	TotalPrice int              `json:"total_price"`
	Customer   CustomerInfo     `json:"customer_info"`
	Notes      string           `json:"notes"`
}

func CreateOrder(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Input tidak valid"})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Order harus punya minimal satu item"})
		return
	}
	if input.TotalPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ total_price wajib diisi"})
		return
	}
	if input.Customer.Name == "" || input.Customer.Email == "" || input.Customer.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ customer_info (nama, email, telepon) wajib diisi"})
		return
	}
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Setiap item harus punya product_id dan quantity"})
			return
		}
	}

	orderID := GenerateOrderID()
	now := time.Now()

	// Transaksi: order + item + kosongkan keranjang, jadi satu kesatuan
	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal memulai transaksi"})
		return
	}

	_, err = tx.Exec(`
		INSERT INTO orders (order_id, user_id, customer_name, customer_email, customer_phone, customer_address,
			total_price, status, payment_status, cancel_requested, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?, ?, ?)`,
		orderID, userID, input.Customer.Name, input.Customer.Email, input.Customer.Phone, input.Customer.Address,
		input.TotalPrice, OrderPending, PaymentPending, input.Notes, now, now)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membuat order"})
		return
	}

	// Item dibekukan persis seperti dikirim: snapshot, bukan join ke produk
	for _, item := range input.Items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, name, price, quantity, size, temperature, image)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size, item.Temperature, item.Image)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menyimpan item order"})
			return
		}
	}

	// Keranjang dikosongkan otomatis setelah checkout
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengosongkan keranjang"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menyelesaikan order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "✅ Order berhasil dibuat",
		"data": gin.H{
			"order_id":       orderID,
			"status":         OrderPending,
			"payment_status": PaymentPending,
			"total_price":    input.TotalPrice,
			"created_at":     now,
		},
	})
}

// ++++++++++++++++++++++++
//
//	Order READ
//
// ++++++++++++++++++++++++

type OrderWithItems struct {
	Order OrderModel       `json:"order"`
	Items []OrderItemModel `json:"items"`
}

func GetMyOrders(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	rows, err := db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data order"})
		return
	}
	defer rows.Close()

	allOrders := []OrderWithItems{}
	for rows.Next() {
		var o OrderModel
		if err := rows.Scan(
			&o.OrderID, &o.UserID,
			&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
			&o.TotalPrice, &o.Status, &o.PaymentStatus,
			&o.CancelRequested, &o.CancelRequestedAt,
			&o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membaca data order"})
			return
		}

		items, err := loadOrderItems(db, o.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil item order"})
			return
		}
		allOrders = append(allOrders, OrderWithItems{Order: o, Items: items})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": allOrders})
}

func GetOrderByID(c *gin.Context, db *sql.DB) {
	orderID := c.Param("id")

	order, err := loadOrder(db, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}

	// Customer cuma boleh lihat order miliknya, order orang lain dianggap tidak ada
	if order.UserID != GetUserID(c) && !IsBackOffice(c) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}

	items, err := loadOrderItems(db, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil item order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": OrderWithItems{Order: order, Items: items}})
}

func GetAllOrders(c *gin.Context, db *sql.DB) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders`
	var args []interface{}

	// Filter status opsional untuk papan kanban
	if status := c.Query("status"); status != "" {
		if !IsValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Status tidak valid"})
			return
		}
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data order"})
		return
	}
	defer rows.Close()

	allOrders := []OrderWithItems{}
	for rows.Next() {
		var o OrderModel
		if err := rows.Scan(
			&o.OrderID, &o.UserID,
			&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
			&o.TotalPrice, &o.Status, &o.PaymentStatus,
			&o.CancelRequested, &o.CancelRequestedAt,
			&o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membaca data order"})
			return
		}

		items, err := loadOrderItems(db, o.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil item order"})
			return
		}
		allOrders = append(allOrders, OrderWithItems{Order: o, Items: items})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": allOrders})
}

// ++++++++++++++++++++++++
//
//	Order STATUS (back office)
//
// ++++++++++++++++++++++++
func UpdateOrderStatus(c *gin.Context, db *sql.DB) {
	orderID := c.Param("id")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ status wajib diisi"})
		return
	}
	if !IsValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Status tidak valid"})
		return
	}

	order, err := loadOrder(db, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}

	// Status dijaga tabel transisi, bukan sekadar cek enum.
	// completed dan cancelled terminal, order tidak bisa mundur.
	if !CanTransitionOrder(order.Status, input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "❌ Transisi status " + order.Status + " → " + input.Status + " tidak diizinkan",
		})
		return
	}

	if _, err := db.Exec(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		input.Status, time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengubah status order"})
		return
	}

	// Customer tahu perubahan ini lewat polling, tidak ada push dari server
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Status order berhasil diubah",
		"data":    gin.H{"order_id": orderID, "status": input.Status},
	})
}

// ++++++++++++++++++++++++
//
//	Order CANCEL (langsung oleh customer)
//
// ++++++++++++++++++++++++
func CancelOwnOrder(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)
	orderID := c.Param("id")

	order, err := loadOrder(db, orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}

	// Hanya selama masih pending/confirmed, setelah dapur mulai tidak bisa
	if !CanCancelOrder(order.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Order sudah tidak bisa dibatalkan"})
		return
	}

	if _, err := db.Exec(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		OrderCancelled, time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membatalkan order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Order berhasil dibatalkan"})
}

// ++++++++++++++++++++++++
//
//	Order CANCEL REQUEST (menunggu persetujuan back office)
//
// ++++++++++++++++++++++++
func RequestOrderCancellation(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)
	orderID := c.Param("id")

	order, err := loadOrder(db, orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}

	if !CanCancelOrder(order.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Pembatalan hanya bisa diajukan saat order pending atau confirmed"})
		return
	}
	if order.CancelRequested {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Pembatalan sudah pernah diajukan"})
		return
	}

	if _, err := db.Exec(`UPDATE orders SET cancel_requested = TRUE, cancel_requested_at = ?, updated_at = ? WHERE order_id = ?`,
		time.Now(), time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengajukan pembatalan"})
		return
	}

	// Persetujuannya lewat PATCH status → cancelled oleh back office
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Pengajuan pembatalan dikirim, menunggu persetujuan"})
}

func RejectOrderCancellation(c *gin.Context, db *sql.DB) {
	orderID := c.Param("id")

	order, err := loadOrder(db, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Order tidak ditemukan"})
		return
	}
	if !order.CancelRequested {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Tidak ada pengajuan pembatalan untuk order ini"})
		return
	}

	// Flag dibersihkan, status tidak disentuh. Customer boleh mengajukan ulang.
	if _, err := db.Exec(`UPDATE orders SET cancel_requested = FALSE, cancel_requested_at = NULL, updated_at = ? WHERE order_id = ?`,
		time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menolak pengajuan pembatalan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Pengajuan pembatalan ditolak"})
}

// ++++++++++++++++++++++++
//
//	Order POS (kasir, walk-in tanpa keranjang)
//
// ++++++++++++++++++++++++
func CreatePOSOrder(c *gin.Context, db *sql.DB) {
	var input struct {
		Items        []OrderItemInput `json:"items"`
		TotalPrice   int              `json:"total_price"`
		CustomerName string           `json:"customer_name"`
		Notes        string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Input tidak valid"})
		return
	}
	if len(input.Items) == 0 || input.TotalPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Item dan total_price wajib diisi"})
		return
	}
	if input.CustomerName == "" {
		input.CustomerName = "Walk-in"
	}

	orderID := GenerateOrderID()
	now := time.Now()

	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal memulai transaksi"})
		return
	}

	// Order POS langsung confirmed karena diterima di kasir
	_, err = tx.Exec(`
		INSERT INTO orders (order_id, user_id, customer_name, customer_email, customer_phone, customer_address,
			total_price, status, payment_status, cancel_requested, notes, created_at, updated_at)
		VALUES (?, ?, ?, '', '', '', ?, ?, ?, FALSE, ?, ?, ?)`,
		orderID, GetUserID(c), input.CustomerName,
		input.TotalPrice, OrderConfirmed, PaymentPending, input.Notes, now, now)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membuat order POS"})
		return
	}

	for _, item := range input.Items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, name, price, quantity, size, temperature, image)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size, item.Temperature, item.Image)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menyimpan item order"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menyelesaikan order POS"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "✅ Order POS berhasil dibuat",
		"data":    gin.H{"order_id": orderID, "status": OrderConfirmed},
	})
}
