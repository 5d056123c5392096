package main

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Route setup
func AuthRoutes(r *gin.Engine, db *sql.DB) {
	r.POST("/api/auth/register", func(c *gin.Context) {
		handleRegister(c, db)
	})
	r.POST("/api/auth/login", func(c *gin.Context) {
		handleLogin(c, db)
	})

	me := r.Group("/api/auth")
	me.Use(AuthMiddleware())
	{
		me.GET("/me", func(c *gin.Context) {
			handleMe(c, db)
		})
		me.PATCH("/profile", func(c *gin.Context) {
			handleUpdateProfile(c, db)
		})
	}
}

// =================== LOGIN ===================

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleLogin(c *gin.Context, db *sql.DB) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Email dan password wajib diisi"})
		return
	}

	email := strings.ToLower(input.Email)

	user, found := findUserByEmail(db, email)
	if !found {
		writeLoginLog(db, c, email, "", "failed", "email not registered")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "❌ Email tidak ditemukan"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		writeLoginLog(db, c, email, user.Role, "failed", "wrong password")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "❌ Password salah"})
		return
	}

	writeLoginLog(db, c, email, user.Role, "success", "")
	respondWithToken(c, user.ID, user.Email, user.Role, user.Name)
}

// =================== REGISTER ===================

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func handleRegister(c *gin.Context, db *sql.DB) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Nama, email, dan password wajib diisi"})
		return
	}

	// periksa format email
	if !strings.Contains(input.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Format email tidak valid"})
		return
	}
	// periksa panjang password
	if len(input.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Password minimal 6 karakter"})
		return
	}
	// periksa apakah email sudah terdaftar
	if _, found := findUserByEmail(db, strings.ToLower(input.Email)); found {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "❌ Email sudah terdaftar"})
		return
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengenkripsi password"})
		return
	}

	// Registrasi publik selalu jadi customer; role staf dibuat lewat seeding/admin
	res, err := db.Exec("INSERT INTO users (name, email, password, role, phone, address, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		input.Name, strings.ToLower(input.Email), string(hashedPwd), "customer", input.Phone, input.Address, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mendaftarkan user"})
		return
	}
	id, _ := res.LastInsertId()

	// Langsung login (generate token)
	respondWithToken(c, int(id), strings.ToLower(input.Email), "customer", input.Name)
}

// =================== ME / PROFILE ===================

func handleMe(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var u User
	err := db.QueryRow("SELECT id, name, email, role, phone, address, created_at FROM users WHERE id = ?", userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.Address, &u.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "❌ User tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}

type ProfileUpdateInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func handleUpdateProfile(c *gin.Context, db *sql.DB) {
	userID := GetUserID(c)

	var input ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Data tidak valid"})
		return
	}
	if input.Name == nil && input.Phone == nil && input.Address == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Tidak ada data untuk diupdate"})
		return
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "❌ Nama tidak boleh kosong"})
		return
	}

	// Build query update secara dinamis, hanya field yang dikirim
	var fields []string
	var args []interface{}
	if input.Name != nil {
		fields = append(fields, "name = ?")
		args = append(args, *input.Name)
	}
	if input.Phone != nil {
		fields = append(fields, "phone = ?")
		args = append(args, *input.Phone)
	}
	if input.Address != nil {
		fields = append(fields, "address = ?")
		args = append(args, *input.Address)
	}
	args = append(args, userID)

	query := "UPDATE users SET " + strings.Join(fields, ", ") + " WHERE id = ?"
	if _, err := db.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal mengupdate profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "✅ Profil berhasil diupdate"})
}

// =================== DATABASE HELPER ===================

func findUserByEmail(db *sql.DB, email string) (User, bool) {
	var u User
	err := db.QueryRow("SELECT id, name, email, password, role, phone, address, created_at FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Phone, &u.Address, &u.CreatedAt)
	return u, err == nil
}

// =================== LOGIN LOG ===================

// deviceFromUserAgent menebak jenis perangkat secara kasar dari User-Agent
func deviceFromUserAgent(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "android"), strings.Contains(lower, "iphone"), strings.Contains(lower, "mobile"):
		return "mobile"
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		return "tablet"
	case lower == "":
		return "unknown"
	default:
		return "desktop"
	}
}

// writeLoginLog mencatat percobaan login. Append-only dan best-effort:
// kalau insert gagal, login tetap jalan dan errornya cuma di-log.
func writeLoginLog(db *sql.DB, c *gin.Context, email, role, status, failureReason string) {
	ua := c.GetHeader("User-Agent")
	_, err := db.Exec(`
		INSERT INTO login_logs (email, role, status, ip, device, user_agent, failure_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, email, role, status, c.ClientIP(), deviceFromUserAgent(ua), ua, failureReason, time.Now())
	if err != nil {
		log.Printf("⚠️ Gagal menulis login log untuk %s: %v", email, err)
	}
}

// =================== UTILITY ===================

func respondWithToken(c *gin.Context, id int, email, role, name string) {
	token, err := GenerateToken(id, email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Gagal membuat token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Registrasi atau Login berhasil",
		"data": gin.H{
			"token": token,
			"role":  role,
			"user": gin.H{
				"id":    id,
				"email": email,
				"name":  name,
			},
		},
	})
}
