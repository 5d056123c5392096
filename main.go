// --- main.go ---
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	// Koneksi ke database
	db, err := InitDB()
	if err != nil {
		log.Fatalf("❌ Gagal terhubung ke database: %v", err)
	}

	if len(jwtSecret) == 0 {
		log.Fatal("❌ JWT_SECRET wajib di-set sebelum server jalan")
	}

	r := gin.Default()

	// Setup routes langsung dari fungsi yang sudah dibuat
	AuthRoutes(r, db)
	ProductRoutes(r, db)
	CartRoutes(r, db)
	OrderRoutes(r, db)
	ReservationRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Menjalankan server
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
