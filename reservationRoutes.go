package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// =========================
// 🪑 Reservation Management
// =========================
func ReservationRoutes(r *gin.Engine, db *sql.DB) {
	// 👤 Customer: buat dan kelola reservasi sendiri
	customerRes := r.Group("/api/reservations")
	customerRes.Use(AuthMiddleware(), RoleMiddleware("customer"))
	{
		customerRes.POST("/create", func(c *gin.Context) {
			CreateReservation(c, db)
		})
		customerRes.GET("/my-reservations", func(c *gin.Context) {
			GetMyReservations(c, db)
		})
		customerRes.PUT("/:id", func(c *gin.Context) {
			UpdateMyReservation(c, db)
		})
	}

	// 🔐 Back office
	adminRes := r.Group("/api/reservations")
	adminRes.Use(AuthMiddleware(), BackOfficeMiddleware())
	{
		adminRes.GET("/admin/all", func(c *gin.Context) {
			GetAllReservations(c, db)
		})
		adminRes.GET("/admin/occupancy", func(c *gin.Context) {
			GetTableOccupancy(c, db)
		})
		adminRes.PATCH("/:id/status", func(c *gin.Context) {
			UpdateReservationStatus(c, db)
		})
	}

	// Cancel: customer hanya miliknya yang masih confirmed, back office bebas
	cancel := r.Group("/api/reservations")
	cancel.Use(AuthMiddleware())
	{
		cancel.DELETE("/:id", func(c *gin.Context) {
			CancelReservation(c, db)
		})
	}
}

// ++++++++++++++++++++++++
//
//	Reservation HELPER
//
// ++++++++++++++++++++++++

const reservationColumns = `reservation_id, user_id, customer_name, customer_email, customer_phone,
		date, time, guests, table_id, status, special_requests, cancelled_at, created_at`

func scanReservation(scan func(dest ...interface{}) error) (ReservationModel, error) {
	var res ReservationModel
	err := scan(
		&res.ReservationID, &res.UserID,
		&res.Customer.Name, &res.Customer.Email, &res.Customer.Phone,
		&res.Date, &res.Time, &res.Guests, &res.TableID, &res.Status,
		&res.SpecialRequests, &res.CancelledAt, &res.CreatedAt,
	)
	return res, err
}

func loadReservation(db *sql.DB, reservationID string) (ReservationModel, error) {
	row := db.QueryRow(`
		SELECT `+reservationColumns+`
		FROM reservations WHERE reservation_id = ?
	`, reservationID)
	return scanReservation(row.Scan)
}

func queryReservations(db *sql.DB, query string, args ...interface{}) ([]ReservationModel, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := []ReservationModel{}
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// ++++++++++++++++++++++++
//
//	Reservation CREATE
//
// ++++++++++++++++++++++++

type CreateReservationInput struct {
	Customer        CustomerInfo `json:"customer_info"`
	Date            string       `json:"date"`
	Time            string       `json:"time"`
	Guests          int          `json:"guests"`
	TableID         *string      `json:"table_id"`
	SpecialRequests string       `json:"special_requests"`
}

func CreateReservation(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var input CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Input tidak valid"})
		return
	}
	if input.Customer.Name == "" || input.Customer.Email == "" || input.Customer.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ customer_info (nama, email, telepon) wajib diisi"})
		return
	}
	if input.Date == "" || input.Time == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Tanggal dan jam reservasi wajib diisi"})
		return
	}
	if input.Guests < 1 || input.Guests > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Jumlah tamu harus antara 1 sampai 20"})
		return
	}

	reservationID := GenerateReservationID()
	now := time.Now()

	// Reservasi langsung confirmed, tidak ada tahap pending.
	// Tidak ada cek bentrok meja saat pembuatan, okupansi cuma proyeksi baca.
	_, err := db.Exec(`
		INSERT INTO reservations (reservation_id, user_id, customer_name, customer_email, customer_phone,
			date, time, guests, table_id, status, special_requests, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reservationID, userID, input.Customer.Name, input.Customer.Email, input.Customer.Phone,
		input.Date, input.Time, input.Guests, input.TableID, ReservationConfirmed, input.SpecialRequests, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membuat reservasi"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "✅ Reservasi berhasil dibuat",
		"data": gin.H{
			"reservation_id": reservationID,
			"status":         ReservationConfirmed,
			"date":           input.Date,
			"time":           input.Time,
			"guests":         input.Guests,
		},
	})
}

// ++++++++++++++++++++++++
//
//	Reservation READ
//
// ++++++++++++++++++++++++
func GetMyReservations(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	reservations, err := queryReservations(db, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data reservasi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations})
}

func GetAllReservations(c *gin.Context, db *sql.DB) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations`
	var conditions []string
	var args []interface{}

	if date := c.Query("date"); date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, date)
	}
	if status := c.Query("status"); status != "" {
		if !IsValidReservationStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Status tidak valid"})
			return
		}
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY date ASC, time ASC"

	reservations, err := queryReservations(db, query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data reservasi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations})
}

// GetTableOccupancy: proyeksi baca meja yang terpakai di satu tanggal,
// dihitung dari reservasi confirmed yang punya table_id. Bukan invarian
// tersimpan, jadi double-booking tetap mungkin saat create.
func GetTableOccupancy(c *gin.Context, db *sql.DB) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Parameter date wajib diisi"})
		return
	}

	rows, err := db.Query(`
		SELECT table_id, time, guests, reservation_id
		FROM reservations
		WHERE date = ? AND status = ? AND table_id IS NOT NULL
		ORDER BY time ASC
	`, date, ReservationConfirmed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data okupansi"})
		return
	}
	defer rows.Close()

	type occupiedTable struct {
		TableID       string `json:"table_id"`
		Time          string `json:"time"`
		Guests        int    `json:"guests"`
		ReservationID string `json:"reservation_id"`
	}

	occupied := []occupiedTable{}
	for rows.Next() {
		var t occupiedTable
		if err := rows.Scan(&t.TableID, &t.Time, &t.Guests, &t.ReservationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membaca data okupansi"})
			return
		}
		occupied = append(occupied, t)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"date": date, "occupied": occupied}})
}

// ++++++++++++++++++++++++
//
//	Reservation UPDATE (customer, selama masih confirmed)
//
// ++++++++++++++++++++++++
func UpdateMyReservation(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)
	reservationID := c.Param("id")

	res, err := loadReservation(db, reservationID)
	if err != nil || res.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Reservasi tidak ditemukan"})
		return
	}
	if res.Status != ReservationConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Reservasi yang sudah selesai atau batal tidak bisa diubah"})
		return
	}

	var input struct {
		Date            *string `json:"date"`
		Time            *string `json:"time"`
		Guests          *int    `json:"guests"`
		SpecialRequests *string `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Data tidak valid"})
		return
	}
	if input.Date == nil && input.Time == nil && input.Guests == nil && input.SpecialRequests == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Tidak ada data untuk diupdate"})
		return
	}
	if input.Guests != nil && (*input.Guests < 1 || *input.Guests > 20) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Jumlah tamu harus antara 1 sampai 20"})
		return
	}

	// Ambil nilai lama untuk field yang tidak dikirim
	date, timeStr, guests, requests := res.Date, res.Time, res.Guests, res.SpecialRequests
	if input.Date != nil {
		date = *input.Date
	}
	if input.Time != nil {
		timeStr = *input.Time
	}
	if input.Guests != nil {
		guests = *input.Guests
	}
	if input.SpecialRequests != nil {
		requests = *input.SpecialRequests
	}

	if _, err := db.Exec(`
		UPDATE reservations SET date = ?, time = ?, guests = ?, special_requests = ? WHERE reservation_id = ?
	`, date, timeStr, guests, requests, reservationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengupdate reservasi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Reservasi berhasil diupdate"})
}

// ++++++++++++++++++++++++
//
//	Reservation CANCEL
//
// ++++++++++++++++++++++++
func CancelReservation(c *gin.Context, db *sql.DB) {
	reservationID := c.Param("id")

	res, err := loadReservation(db, reservationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Reservasi tidak ditemukan"})
		return
	}

	if IsBackOffice(c) {
		// Back office boleh membatalkan dari status apa pun, tanpa guard
	} else {
		if res.UserID != GetUserID(c) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Reservasi tidak ditemukan"})
			return
		}
		if res.Status != ReservationConfirmed {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Reservasi sudah tidak bisa dibatalkan"})
			return
		}
	}

	// status = cancelled dan cancelled_at selalu di-set bersamaan
	if _, err := db.Exec(`
		UPDATE reservations SET status = ?, cancelled_at = ? WHERE reservation_id = ?
	`, ReservationCancelled, time.Now(), reservationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membatalkan reservasi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Reservasi berhasil dibatalkan"})
}

// ++++++++++++++++++++++++
//
//	Reservation STATUS (back office)
//
// ++++++++++++++++++++++++
func UpdateReservationStatus(c *gin.Context, db *sql.DB) {
	reservationID := c.Param("id")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ status wajib diisi"})
		return
	}
	if !IsValidReservationStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Status tidak valid"})
		return
	}

	if _, err := loadReservation(db, reservationID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Reservasi tidak ditemukan"})
		return
	}

	// Back office bebas berpindah antar empat status enum.
	// Khusus cancelled, cancelled_at ikut di-set di write yang sama.
	if input.Status == ReservationCancelled {
		if _, err := db.Exec(`UPDATE reservations SET status = ?, cancelled_at = ? WHERE reservation_id = ?`,
			input.Status, time.Now(), reservationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengubah status reservasi"})
			return
		}
	} else {
		if _, err := db.Exec(`UPDATE reservations SET status = ? WHERE reservation_id = ?`,
			input.Status, reservationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengubah status reservasi"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Status reservasi berhasil diubah",
		"data":    gin.H{"reservation_id": reservationID, "status": input.Status},
	})
}
