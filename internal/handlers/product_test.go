package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/retail-erp/internal/models"
	"github.com/diewo77/retail-erp/internal/services"
)

func TestProductCreateAndList(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProductHandler(services.NewInventoryService(conn, 10))

	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(t, http.MethodPost, "/products", services.ProductInput{
		Name: "Ultra Monitor", Category: "Electronics", Price: 299.99, Stock: 12,
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var created models.Product
	decodeBody(t, w, &created)
	if created.ID == 0 || created.Name != "Ultra Monitor" {
		t.Fatalf("unexpected product %+v", created)
	}

	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/products?q=monitor", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var listed struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	decodeBody(t, w, &listed)
	if listed.Total != 1 || listed.Items[0].ID != created.ID {
		t.Fatalf("unexpected listing %+v", listed)
	}
}

func TestProductCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProductHandler(services.NewInventoryService(conn, 10))

	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(t, http.MethodPost, "/products", services.ProductInput{
		Name: "", Price: -1, Stock: -3,
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decodeBody(t, w, &resp)
	if resp.Error != "validation_failed" {
		t.Fatalf("expected validation_failed got %q", resp.Error)
	}
	for _, field := range []string{"name", "price", "stock"} {
		if _, ok := resp.Details[field]; !ok {
			t.Fatalf("expected violation for %s, got %v", field, resp.Details)
		}
	}
}

func TestProductUpdateNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProductHandler(services.NewInventoryService(conn, 10))

	r := jsonRequest(t, http.MethodPost, "/products/999", services.ProductInput{
		Name: "Ghost", Category: "Tools", Price: 1, Stock: 1,
	})
	r.SetPathValue("id", "999")
	w := httptest.NewRecorder()
	h.Update(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductDelete(t *testing.T) {
	conn := setupTestDB(t)
	svc := services.NewInventoryService(conn, 10)
	h := NewProductHandler(svc)

	p, err := svc.Create(services.ProductInput{Name: "Eco Kettle", Category: "Tools", Price: 40, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/products/1/delete", nil)
	r.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	h.Delete(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	conn.Model(&models.Product{}).Where("id = ?", p.ID).Count(&count)
	if count != 0 {
		t.Fatalf("product should be gone")
	}
}

func TestLowStockEndpoint(t *testing.T) {
	conn := setupTestDB(t)
	svc := services.NewInventoryService(conn, 10)
	h := NewProductHandler(svc)

	for _, p := range []models.Product{
		{Name: "Low Lamp", Category: "Tools", Price: 10, Stock: 3},
		{Name: "Full Drill", Category: "Tools", Price: 80, Stock: 40},
	} {
		if err := conn.Create(&p).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	h.LowStock(w, httptest.NewRequest(http.MethodGet, "/products/low-stock", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Threshold int              `json:"threshold"`
		Items     []models.Product `json:"items"`
	}
	decodeBody(t, w, &resp)
	if resp.Threshold != 10 {
		t.Fatalf("expected threshold 10 got %d", resp.Threshold)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Low Lamp" {
		t.Fatalf("unexpected low stock items %+v", resp.Items)
	}
}
