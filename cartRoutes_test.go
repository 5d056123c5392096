package main

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectUserExists(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM users WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
}

func expectProductSnapshot(mock sqlmock.Sqlmock, name string, price int, image string) {
	mock.ExpectQuery("SELECT name, price, image FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"name", "price", "image"}).AddRow(name, price, image))
}

func cartItemRows(items ...CartItemModel) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "product_id", "name", "price", "quantity", "size", "temperature", "image", "added_at"})
	for _, it := range items {
		rows.AddRow(it.ID, it.UserID, it.ProductID, it.Name, it.Price, it.Quantity, it.Size, it.Temperature, it.Image, it.AddedAt)
	}
	return rows
}

func TestAddCartItemMergesSameProductAndSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")
	body := map[string]interface{}{"product_id": 10, "quantity": 2, "size": "M"}

	// Panggilan pertama: belum ada item (product_id, size) → insert baris baru
	expectUserExists(mock)
	expectProductSnapshot(mock, "Kopi Susu", 25000, "kopisusu.jpg")
	mock.ExpectQuery("SELECT id FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(1, 10, "Kopi Susu", 25000, 2, "M", "", "kopisusu.jpg", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	w, env := performRequest(t, r, http.MethodPost, "/api/cart/add", body, token)
	requireStatus(t, w, http.StatusOK)
	assert.True(t, env.Success)

	// Panggilan kedua dengan (product_id, size) sama: quantity dijumlah, bukan baris baru
	expectUserExists(mock)
	expectProductSnapshot(mock, "Kopi Susu", 25000, "kopisusu.jpg")
	mock.ExpectQuery("SELECT id FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE cart_items SET quantity = quantity").
		WithArgs(2, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w, env = performRequest(t, r, http.MethodPost, "/api/cart/add", body, token)
	requireStatus(t, w, http.StatusOK)
	assert.True(t, env.Success)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCartItemDifferentSizeMakesNewLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")

	// Produk sama, size beda → tidak match, tetap insert baris baru
	expectUserExists(mock)
	expectProductSnapshot(mock, "Kopi Susu", 25000, "kopisusu.jpg")
	mock.ExpectQuery("SELECT id FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(1, 10, "Kopi Susu", 25000, 1, "L", "", "kopisusu.jpg", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))

	w, env := performRequest(t, r, http.MethodPost, "/api/cart/add",
		map[string]interface{}{"product_id": 10, "size": "L"}, token)
	requireStatus(t, w, http.StatusOK)
	assert.True(t, env.Success)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")

	expectUserExists(mock)
	mock.ExpectQuery("SELECT name, price, image FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"name", "price", "image"}))

	w, env := performRequest(t, r, http.MethodPost, "/api/cart/add",
		map[string]interface{}{"product_id": 99}, token)
	requireStatus(t, w, http.StatusNotFound)
	assert.False(t, env.Success)
}

// Sync dua kali dengan payload sama memang menggandakan quantity.
// Ini perilaku yang disengaja dipertahankan: client wajib mengosongkan
// keranjang lokal setelah sync pertama sukses.
func TestSyncCartTwiceDoublesQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 10, "name": "Kopi Susu", "price": 25000, "quantity": 2, "size": "M", "image": "kopisusu.jpg"},
		},
	}
	now := time.Now()

	// Sync pertama: keranjang server kosong → satu baris quantity 2
	expectUserExists(mock)
	mock.ExpectQuery("SELECT id FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(1, 10, "Kopi Susu", 25000, 2, "M", "", "kopisusu.jpg", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("ORDER BY added_at").
		WillReturnRows(cartItemRows(CartItemModel{ID: 1, UserID: 1, ProductID: 10, Name: "Kopi Susu", Price: 25000, Quantity: 2, Size: "M", Image: "kopisusu.jpg", AddedAt: now}))

	w, env := performRequest(t, r, http.MethodPost, "/api/cart/sync", payload, token)
	requireStatus(t, w, http.StatusOK)

	var items []CartItemModel
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Sync kedua dengan payload sama: quantity jadi 4, bukan tetap 2
	expectUserExists(mock)
	mock.ExpectQuery("SELECT id FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE cart_items SET quantity = quantity").
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("ORDER BY added_at").
		WillReturnRows(cartItemRows(CartItemModel{ID: 1, UserID: 1, ProductID: 10, Name: "Kopi Susu", Price: 25000, Quantity: 4, Size: "M", Image: "kopisusu.jpg", AddedAt: now}))

	w, env = performRequest(t, r, http.MethodPost, "/api/cart/sync", payload, token)
	requireStatus(t, w, http.StatusOK)

	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCartItemAbsentIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")

	// Item sudah tidak ada: delete 0 baris tetap dianggap sukses
	mock.ExpectExec("DELETE FROM cart_items WHERE id").
		WithArgs(42, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w, env := performRequest(t, r, http.MethodDelete, "/api/cart/remove/42", nil, token)
	requireStatus(t, w, http.StatusOK)
	assert.True(t, env.Success)
}

func TestUpdateCartItemQuantityRejectsZero(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)
	token := tokenFor(t, 1, "dina@example.com", "customer")

	w, env := performRequest(t, r, http.MethodPut, "/api/cart/update/5",
		map[string]interface{}{"quantity": 0}, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.False(t, env.Success)
}

func TestCartRequiresCustomerRole(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(db)

	// Tanpa token sama sekali
	w, _ := performRequest(t, r, http.MethodGet, "/api/cart", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)

	// Token back office tidak boleh menyentuh keranjang customer
	staff := tokenFor(t, 2, "staff@kedaikopi.id", "staff")
	w, _ = performRequest(t, r, http.MethodGet, "/api/cart", nil, staff)
	requireStatus(t, w, http.StatusForbidden)
}
