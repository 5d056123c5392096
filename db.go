package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// InitDB membuka koneksi MySQL untuk kedaikopi dari environment
// (.env dimuat kalau ada). Host dan port punya default lokal,
// DB_USER dan DB_NAME wajib diisi.
func InitDB() (*sql.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ File .env tidak ditemukan, lanjut pakai environment bawaan")
	}

	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3306"
	}
	if user == "" || name == "" {
		return nil, fmt.Errorf("DB_USER dan DB_NAME wajib di-set")
	}

	// parseTime supaya kolom DATETIME langsung di-scan ke time.Time
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4", user, pass, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("gagal membuka koneksi DB: %w", err)
	}

	// Trafik satu kedai (storefront + kasir), pool kecil sudah cukup
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(3 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("gagal terhubung ke DB: %w", err)
	}

	log.Println("✅ Terhubung ke database", name)
	return db, nil
}
