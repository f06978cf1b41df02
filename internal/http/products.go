package http

import (
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/httpx"
	"github.com/stocklane/stocklane/pkg/idx"
)

// ProductsHandler is CRUD over the product catalog, gated on
// ADMIN or PRODUCT_MANAGER.
type ProductsHandler struct {
	Store store.Store
}

type ProductRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Description    string  `json:"description" validate:"max=2000"`
	Price          float64 `json:"price" validate:"gte=0"`
	Stock          int     `json:"stock" validate:"gte=0"`
	StockThreshold int     `json:"stockThreshold" validate:"gte=0"`
	IsActive       bool    `json:"isActive"`
}

type ProductResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Stock          int       `json:"stock"`
	StockThreshold int       `json:"stockThreshold"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func productResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		StockThreshold: p.StockThreshold,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// HandleList handles GET /api/products
//
//	@Summary	List products
//	@Tags		Products
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	ProductResponse
//	@Router		/api/products [get].
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.Products().ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/products/{id}
//
//	@Summary	Get a product
//	@Tags		Products
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/products/{id} [get].
func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.Store.Products().GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, productResponse(product))
}

// HandleCreate handles POST /api/products
//
//	@Summary	Create a product
//	@Tags		Products
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ProductRequest	true	"Product"
//	@Success	201		{object}	ProductResponse
//	@Router		/api/products [post].
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product := domain.Product{
		ID:             idx.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		StockThreshold: req.StockThreshold,
		IsActive:       req.IsActive,
	}
	if err := h.Store.Products().CreateProduct(r.Context(), product); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, productResponse(product))
}

// HandleUpdate handles PUT /api/products/{id}
//
//	@Summary	Update a product
//	@Tags		Products
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Product id"
//	@Param		request	body		ProductRequest	true	"Product"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	map[string]string
//	@Router		/api/products/{id} [put].
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product := domain.Product{
		ID:             r.PathValue("id"),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		StockThreshold: req.StockThreshold,
		IsActive:       req.IsActive,
	}
	if err := h.Store.Products().UpdateProduct(r.Context(), product); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, productResponse(product))
}

// HandleDelete handles DELETE /api/products/{id}
//
//	@Summary	Delete a product
//	@Tags		Products
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	LoginResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/products/{id} [delete].
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Products().DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
