package http

import (
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/httpx"
	"github.com/stocklane/stocklane/pkg/idx"
)

// StoresHandler is CRUD over sales locations (ADMIN) plus the per-store sale
// records (ADMIN or SALES_MANAGER; the router gates each route).
type StoresHandler struct {
	Store store.Store
}

type StoreRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location" validate:"max=500"`
}

type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SaleRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Total     float64 `json:"total" validate:"gte=0"`
}

type SaleResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Total     float64   `json:"total"`
	SoldAt    time.Time `json:"soldAt"`
}

func storeResponse(s domain.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func saleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Total:     s.Total,
		SoldAt:    s.SoldAt,
	}
}

// HandleList handles GET /api/stores
//
//	@Summary	List stores
//	@Tags		Stores
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	StoreResponse
//	@Router		/api/stores [get].
func (h *StoresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Store.Stores().ListStores(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, storeResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /api/stores
//
//	@Summary	Create a store
//	@Tags		Stores
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		StoreRequest	true	"Store"
//	@Success	201		{object}	StoreResponse
//	@Router		/api/stores [post].
func (h *StoresHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st := domain.Store{
		ID:       idx.New().String(),
		Name:     req.Name,
		Location: req.Location,
	}
	if err := h.Store.Stores().CreateStore(r.Context(), st); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, storeResponse(st))
}

// HandleUpdate handles PUT /api/stores/{id}
//
//	@Summary	Update a store
//	@Tags		Stores
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Store id"
//	@Param		request	body		StoreRequest	true	"Store"
//	@Success	200		{object}	StoreResponse
//	@Failure	404		{object}	map[string]string
//	@Router		/api/stores/{id} [put].
func (h *StoresHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st := domain.Store{
		ID:       r.PathValue("id"),
		Name:     req.Name,
		Location: req.Location,
	}
	if err := h.Store.Stores().UpdateStore(r.Context(), st); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storeResponse(st))
}

// HandleDelete handles DELETE /api/stores/{id}
//
//	@Summary	Delete a store
//	@Tags		Stores
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Store id"
//	@Success	200	{object}	LoginResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/stores/{id} [delete].
func (h *StoresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Stores().DeleteStore(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleListSales handles GET /api/stores/{id}/sales
//
//	@Summary	List a store's sales
//	@Tags		Sales
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path	string	true	"Store id"
//	@Success	200	{array}	SaleResponse
//	@Router		/api/stores/{id}/sales [get].
func (h *StoresHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.Sales().ListSalesByStore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, saleResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreateSale handles POST /api/stores/{id}/sales
//
//	@Summary		Record a sale
//	@Description	The store and product must exist; no stock arithmetic happens here.
//	@Tags			Sales
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Store id"
//	@Param			request	body		SaleRequest	true	"Sale"
//	@Success		201		{object}	SaleResponse
//	@Failure		404		{object}	map[string]string
//	@Router			/api/stores/{id}/sales [post].
func (h *StoresHandler) HandleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	storeID := r.PathValue("id")

	if _, err := h.Store.Stores().GetStoreByID(ctx, storeID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if _, err := h.Store.Products().GetProductByID(ctx, req.ProductID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sale := domain.Sale{
		ID:        idx.New().String(),
		StoreID:   storeID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Total:     req.Total,
	}
	if err := h.Store.Sales().CreateSale(ctx, sale); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, saleResponse(sale))
}
