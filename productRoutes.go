package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// =========================
// 📦 Product Management
// =========================
func ProductRoutes(r *gin.Engine, db *sql.DB) {
	api := r.Group("/api/products")

	// 🟢 Public untuk melihat produk. Token opsional: back office
	// dapat akses ekstra (includeArchived) lewat endpoint yang sama.
	api.GET("", OptionalAuthMiddleware(), func(c *gin.Context) {
		GetAllProducts(c, db)
	})
	api.GET("/:id", func(c *gin.Context) {
		GetProductByID(c, db)
	})

	// 🔐 Khusus back office
	api.Use(AuthMiddleware(), BackOfficeMiddleware())
	{
		api.POST("", func(c *gin.Context) {
			CreateProduct(c, db)
		})
		api.PATCH("/:id", func(c *gin.Context) {
			UpdateProduct(c, db)
		})
		api.PATCH("/:id/archive", func(c *gin.Context) {
			ToggleArchiveProduct(c, db)
		})
		// Satu-satunya hard delete di sistem ini
		api.DELETE("/:id", func(c *gin.Context) {
			DeleteProduct(c, db)
		})
	}
}

// ++++++++++++++++++++++++
//
//	Product READ
//
// ++++++++++++++++++++++++
func GetAllProducts(c *gin.Context, db *sql.DB) {
	// Produk yang diarsip tidak tampil di listing default.
	// includeArchived hanya dihormati untuk back office; caller publik
	// yang mengirim flag ini tetap dapat listing terfilter.
	query := `
		SELECT id, name, price, description, category, image, stock, is_available, is_archived, created_at, updated_at
		FROM products
		WHERE is_archived = FALSE`
	if c.Query("includeArchived") == "true" && IsBackOffice(c) {
		query = `
		SELECT id, name, price, description, category, image, stock, is_available, is_archived, created_at, updated_at
		FROM products`
	}

	rows, err := db.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengambil data produk"})
		return
	}
	defer rows.Close()

	var products []ProductModel
	for rows.Next() {
		var p ProductModel
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.Description,
			&p.Category,
			&p.Image,
			&p.Stock,
			&p.IsAvailable,
			&p.IsArchived,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fmt.Sprintf("❌ Scan error: %v", err)})
			return
		}
		products = append(products, p)
	}

	if products == nil {
		products = []ProductModel{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Semua produk berhasil diambil",
		"data":    products,
	})
}

func GetProductByID(c *gin.Context, db *sql.DB) {
	id, _, ok := GetIDParam(c)
	if !ok {
		return
	}

	var p ProductModel
	err := db.QueryRow(`
		SELECT id, name, price, description, category, image, stock, is_available, is_archived, created_at, updated_at
		FROM products WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Image, &p.Stock, &p.IsAvailable, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Produk tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// ++++++++++++++++++++++++
//
//	Product CREATE
//
// ++++++++++++++++++++++++
func ValidateProductInput(product *ProductModel) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("❌ Nama produk tidak boleh kosong")
	}
	if product.Price < 0 {
		return fmt.Errorf("❌ Harga produk tidak boleh negatif")
	}
	if product.Stock < 0 {
		return fmt.Errorf("❌ Stok produk tidak boleh negatif")
	}
	if strings.TrimSpace(product.Category) == "" {
		return fmt.Errorf("❌ Kategori produk wajib diisi")
	}
	return nil
}

func CreateProduct(c *gin.Context, db *sql.DB) {
	var product ProductModel
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Data produk tidak valid"})
		return
	}

	if err := ValidateProductInput(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	query := `
		INSERT INTO products
		(name, price, description, category, image, stock, is_available, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, NOW(), NOW())`

	res, err := db.Exec(query,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.Image,
		product.Stock,
		product.IsAvailable,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menyimpan produk ke database"})
		return
	}

	lastID, _ := res.LastInsertId()
	product.ID = int(lastID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "✅ Produk berhasil dibuat",
		"data":    product,
	})
}

// ++++++++++++++++++++++++
//
//	Product UPDATE
//
// ++++++++++++++++++++++++
func UpdateProduct(c *gin.Context, db *sql.DB) {
	idInt, _, ok := GetIDParam(c)
	if !ok {
		return
	}
	if !productExists(db, idInt) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Produk tidak ditemukan"})
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Data tidak valid"})
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Tidak ada data untuk diupdate"})
		return
	}

	// Whitelist kolom yang boleh diupdate lewat PATCH
	allowedFields := map[string]bool{
		"name":         true,
		"price":        true,
		"description":  true,
		"category":     true,
		"image":        true,
		"stock":        true,
		"is_available": true,
	}

	// Validasi angka tidak boleh negatif
	for _, numField := range []string{"price", "stock"} {
		if raw, exists := input[numField]; exists {
			val, ok := raw.(float64)
			if !ok || val < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("❌ %s harus angka >= 0", numField)})
				return
			}
		}
	}

	// Build query update secara dinamis
	var fields []string
	var args []interface{}
	for key, val := range input {
		if !allowedFields[key] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("❌ Field %s tidak bisa diupdate", key)})
			return
		}
		fields = append(fields, fmt.Sprintf("%s = ?", key))
		args = append(args, val)
	}
	fields = append(fields, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, idInt)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", strings.Join(fields, ", "))
	if _, err := db.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengupdate produk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Produk berhasil diupdate"})
}

// ++++++++++++++++++++++++
//
//	Product ARCHIVE (soft delete)
//
// ++++++++++++++++++++++++
func ToggleArchiveProduct(c *gin.Context, db *sql.DB) {
	idInt, _, ok := GetIDParam(c)
	if !ok {
		return
	}

	var archived bool
	err := db.QueryRow("SELECT is_archived FROM products WHERE id = ?", idInt).Scan(&archived)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Produk tidak ditemukan"})
		return
	}

	if _, err := db.Exec("UPDATE products SET is_archived = ?, updated_at = NOW() WHERE id = ?", !archived, idInt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengubah status arsip produk"})
		return
	}

	msg := "✅ Produk berhasil diarsipkan"
	if archived {
		msg = "✅ Produk berhasil dikeluarkan dari arsip"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "data": gin.H{"id": idInt, "is_archived": !archived}})
}

// ++++++++++++++++++++++++
//
//	Product DELETE
//
// ++++++++++++++++++++++++
func DeleteProduct(c *gin.Context, db *sql.DB) {
	idInt, _, ok := GetIDParam(c)
	if !ok {
		return
	}
	if !productExists(db, idInt) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ Produk tidak ditemukan"})
		return
	}

	// Order/cart item lama tetap utuh karena menyimpan snapshot, bukan join
	if _, err := db.Exec("DELETE FROM products WHERE id = ?", idInt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal menghapus produk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Produk berhasil dihapus"})
}
