package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// =========================
// 🛒 Cart Management
// =========================
func CartRoutes(r *gin.Engine, db *sql.DB) {
	// 🔐 Khusus customer, guest menyimpan keranjangnya sendiri di sisi client
	api := r.Group("/api/cart")
	api.Use(AuthMiddleware(), RoleMiddleware("customer"))
	{
		api.GET("", func(c *gin.Context) {
			GetMyCart(c, db)
		})
		api.POST("/add", func(c *gin.Context) {
			AddCartItem(c, db)
		})
		api.PUT("/update/:itemId", func(c *gin.Context) {
			UpdateCartItemQuantity(c, db)
		})
		api.DELETE("/remove/:itemId", func(c *gin.Context) {
			RemoveCartItem(c, db)
		})
		api.DELETE("/clear", func(c *gin.Context) {
			ClearCart(c, db)
		})
		// Merge keranjang guest saat login
		api.POST("/sync", func(c *gin.Context) {
			SyncCart(c, db)
		})
	}
}

// loadCartItems mengambil semua item keranjang milik satu user, urut sesuai waktu masuk
func loadCartItems(db *sql.DB, userID int) ([]CartItemModel, error) {
	rows, err := db.Query(`
		SELECT id, user_id, product_id, name, price, quantity, size, temperature, image, added_at
		FROM cart_items
		WHERE user_id = ?
		ORDER BY added_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartItemModel{}
	for rows.Next() {
		var item CartItemModel
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.Size,
			&item.Temperature,
			&item.Image,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// +++++++++++++++++++++++++++++++++
// Cart READ
// +++++++++++++++++++++++++++++++++
func GetMyCart(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	if !userExists(db, userID) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ User tidak ditemukan"})
		return
	}

	items, err := loadCartItems(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data keranjang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Berhasil mengambil item dalam keranjang kamu",
		"data":    items,
	})
}

// +++++++++++++++++++++++++++++++++
// Cart ADD
// +++++++++++++++++++++++++++++++++
func AddCartItem(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var input struct {
		ProductID   int    `json:"product_id"`
		Quantity    int    `json:"quantity"`
		Size        string `json:"size"`
		Temperature string `json:"temperature"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Input tidak valid"})
		return
	}
	if input.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ product_id harus diisi"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1 // default 1
	}

	if !userExists(db, userID) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ User tidak ditemukan"})
		return
	}

	// Bekukan snapshot produk saat ini. Tidak ada cek stok / is_available di keranjang.
	name, price, image, found := fetchProductSnapshot(db, input.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Produk tidak ditemukan"})
		return
	}

	// Item dengan (product_id, size) sama cuma ditambah quantity-nya.
	// Snapshot lama dipertahankan, bukan di-refresh dari produk sekarang.
	var existingID int
	err := db.QueryRow(`
		SELECT id FROM cart_items WHERE user_id = ? AND product_id = ? AND size = ?
	`, userID, input.ProductID, input.Size).Scan(&existingID)

	if err == nil {
		if _, err := db.Exec(`UPDATE cart_items SET quantity = quantity + ? WHERE id = ?`, input.Quantity, existingID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menambah quantity item"})
			return
		}
	} else if err == sql.ErrNoRows {
		_, err := db.Exec(`
			INSERT INTO cart_items (user_id, product_id, name, price, quantity, size, temperature, image, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, userID, input.ProductID, name, price, input.Quantity, input.Size, input.Temperature, image, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menambahkan item ke keranjang"})
			return
		}
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal memeriksa keranjang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Item berhasil ditambahkan ke keranjang"})
}

// +++++++++++++++++++++++++++++++++
// Cart UPDATE QUANTITY
// +++++++++++++++++++++++++++++++++
func UpdateCartItemQuantity(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ ID item harus berupa angka"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Quantity tidak valid atau tidak diisi"})
		return
	}

	// Item harus milik user yang login
	res, err := db.Exec(`
		UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?
	`, input.Quantity, itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal update item"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Item tidak ditemukan atau bukan milik kamu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Quantity berhasil diupdate"})
}

// +++++++++++++++++++++++++++++++++
// Cart REMOVE
// +++++++++++++++++++++++++++++++++
func RemoveCartItem(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ ID item harus berupa angka"})
		return
	}

	// Menghapus item yang sudah tidak ada dianggap sukses (no-op)
	if _, err := db.Exec(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menghapus item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "🗑️ Item berhasil dihapus dari keranjang"})
}

// +++++++++++++++++++++++++++++++++
// Cart CLEAR
// +++++++++++++++++++++++++++++++++
func ClearCart(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	if _, err := db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengosongkan keranjang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Keranjang berhasil dikosongkan"})
}

// +++++++++++++++++++++++++++++++++
// Cart SYNC (merge keranjang guest saat login)
// +++++++++++++++++++++++++++++++++

type SyncCartItemInput struct {
	ProductID   int    `json:"product_id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Temperature string `json:"temperature"`
	Image       string `json:"image"`
}

// SyncCart menggabungkan keranjang lokal guest ke keranjang server:
// item dengan (product_id, size) sama quantity-nya dijumlah, sisanya
// ditambahkan. Client wajib mengosongkan keranjang lokalnya setelah
// sync sukses: memanggil sync dua kali dengan payload sama akan
// menggandakan quantity.
func SyncCart(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var input struct {
		Items []SyncCartItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Input tidak valid"})
		return
	}

	if !userExists(db, userID) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ User tidak ditemukan"})
		return
	}

	now := time.Now()
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			continue // item guest yang rusak dilewati saja
		}

		var existingID int
		err := db.QueryRow(`
			SELECT id FROM cart_items WHERE user_id = ? AND product_id = ? AND size = ?
		`, userID, item.ProductID, item.Size).Scan(&existingID)

		if err == nil {
			if _, err := db.Exec(`UPDATE cart_items SET quantity = quantity + ? WHERE id = ?`, item.Quantity, existingID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menggabungkan keranjang"})
				return
			}
		} else if err == sql.ErrNoRows {
			// Pakai snapshot bawaan guest, bukan data produk sekarang
			_, err := db.Exec(`
				INSERT INTO cart_items (user_id, product_id, name, price, quantity, size, temperature, image, added_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, userID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size, item.Temperature, item.Image, now)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menggabungkan keranjang"})
				return
			}
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal memeriksa keranjang"})
			return
		}
	}

	items, err := loadCartItems(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil keranjang hasil sync"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Keranjang berhasil digabungkan",
		"data":    items,
	})
}
