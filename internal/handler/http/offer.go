package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakmart/shopcore/internal/service"
	"github.com/oakmart/shopcore/pkg/httputil"
	"github.com/oakmart/shopcore/pkg/pagination"
	"github.com/oakmart/shopcore/pkg/validator"
)

// OfferHandler handles HTTP requests for offer endpoints.
type OfferHandler struct {
	service *service.OfferService
	logger  *slog.Logger
}

// NewOfferHandler creates a new offer HTTP handler.
func NewOfferHandler(svc *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateOfferRequest is the JSON request body for creating an offer.
type CreateOfferRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	Name            string `json:"name" validate:"required,min=1,max=255"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	TotalQuantity   int    `json:"total_quantity" validate:"required,gt=0"`
}

// UpdateOfferRequest is the JSON request body for updating an offer.
// Quantities are not updatable through the API.
type UpdateOfferRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	DiscountPercent *int    `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
}

// CreateOffer handles POST /api/v1/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "start_date must be in RFC3339 format"},
		})
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "end_date must be in RFC3339 format"},
		})
		return
	}

	offer, err := h.service.CreateOffer(r.Context(), &service.CreateOfferInput{
		ProductID:       req.ProductID,
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartDate:       startDate,
		EndDate:         endDate,
		TotalQuantity:   req.TotalQuantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: offer})
}

// ListActiveOffers handles GET /api/v1/offers/active
func (h *OfferHandler) ListActiveOffers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	offers, total, err := h.service.ListActiveOffers(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(offers, total, params))
}

// GetOffer handles GET /api/v1/offers/{id}
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	offer, err := h.service.GetOffer(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offer})
}

// RedeemOffer handles POST /api/v1/offers/{id}/redeem
func (h *OfferHandler) RedeemOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	uid := userID(r)
	if uid == "" {
		writeMissingUserID(w)
		return
	}

	redemption, err := h.service.RedeemOffer(r.Context(), id, uid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: redemption})
}

// UpdateOffer handles PUT /api/v1/offers/{id}
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	var req UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateOfferInput{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
	}
	if req.StartDate != nil {
		t, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "start_date must be in RFC3339 format"},
			})
			return
		}
		input.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "end_date must be in RFC3339 format"},
			})
			return
		}
		input.EndDate = &t
	}

	offer, err := h.service.UpdateOffer(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offer})
}

// DeleteOffer handles DELETE /api/v1/offers/{id}
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	if err := h.service.DeleteOffer(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
