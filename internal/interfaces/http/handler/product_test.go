package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/billing/backend/internal/application/catalog"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newProductTestRouter(repo *MockProductRepository) *gin.Engine {
	service := catalogapp.NewProductService(repo, nil)
	h := NewProductHandler(service)

	router := gin.New()
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	return router
}

func TestProductHandler_Upsert_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	body, _ := json.Marshal(map[string]any{
		"description": "Panela 500g",
		"sale_price":  "3200",
		"stock":       "40",
	})
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                       `json:"success"`
		Data    catalogapp.ProductResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Panela 500g", resp.Data.Description)
	assert.True(t, resp.Data.Stock.Equal(decimal.NewFromInt(40)))
	mockRepo.AssertExpectations(t)
}

func TestProductHandler_Upsert_MissingDescription(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	body, _ := json.Marshal(map[string]any{"sale_price": "3200"})
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	productID := uuid.New()
	mockRepo.On("FindByIDForTenant", mock.Anything, mock.Anything, productID).
		Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest("GET", "/api/v1/products/"+productID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	req := httptest.NewRequest("GET", "/api/v1/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "FindByIDForTenant")
}

func TestProductHandler_List_ReturnsMeta(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	product, err := catalog.NewProduct(tenantID, "Arroz 1kg", decimal.Zero, decimal.NewFromInt(4500), decimal.NewFromInt(12), "", "")
	require.NoError(t, err)

	mockRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("catalog.ProductFilter")).
		Return([]catalog.Product{*product}, nil)
	mockRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("catalog.ProductFilter")).
		Return(int64(1), nil)

	req := httptest.NewRequest("GET", "/api/v1/products?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                         `json:"success"`
		Data    []catalogapp.ProductResponse `json:"data"`
		Meta    struct {
			Total    int64 `json:"total"`
			Page     int   `json:"page"`
			PageSize int   `json:"page_size"`
		} `json:"meta"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestProductHandler_Delete_NoContent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	router := newProductTestRouter(mockRepo)

	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	product, err := catalog.NewProduct(tenantID, "Panela 500g", decimal.Zero, decimal.NewFromInt(3200), decimal.NewFromInt(40), "", "")
	require.NoError(t, err)

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	mockRepo.On("DeleteForTenant", mock.Anything, tenantID, product.ID).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertExpectations(t)
}
