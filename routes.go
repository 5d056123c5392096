// Helper bersama untuk semua route, masih dalam package main
package main

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// =======================
// 🧩 Helper Functions
// =======================

// GetIDParam is a helper function to get the ID parameter from the URL and convert it to an integer.
func GetIDParam(c *gin.Context) (int, string, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ ID harus berupa angka"})
		return 0, "", false
	}
	return id, idStr, true
}

// productExists mengecek keberadaan produk tanpa mengambil datanya
func productExists(db *sql.DB, id int) bool {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", id).Scan(&exists)
	return err == nil && exists
}

// userExists mengecek keberadaan user, dipakai path cart sebelum menyentuh item
func userExists(db *sql.DB, id int) bool {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists)
	return err == nil && exists
}

// fetchProductSnapshot mengambil field display produk untuk dibekukan
// ke item keranjang. Sengaja tidak mengecek stock/is_available:
// keranjang tidak pernah memvalidasi stok.
func fetchProductSnapshot(db *sql.DB, productID int) (name string, price int, image string, found bool) {
	err := db.QueryRow("SELECT name, price, image FROM products WHERE id = ?", productID).
		Scan(&name, &price, &image)
	return name, price, image, err == nil
}
