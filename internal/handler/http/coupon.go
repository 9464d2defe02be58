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

// CouponHandler handles HTTP requests for coupon endpoints.
type CouponHandler struct {
	service *service.CouponService
	logger  *slog.Logger
}

// NewCouponHandler creates a new coupon HTTP handler.
func NewCouponHandler(svc *service.CouponService, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateCouponRequest is the JSON request body for creating a coupon.
type CreateCouponRequest struct {
	Code            string `json:"code" validate:"required,min=1,max=50"`
	Description     string `json:"description"`
	DiscountType    string `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue   int64  `json:"discount_value" validate:"required,gt=0"`
	MinimumPurchase int64  `json:"minimum_purchase" validate:"gte=0"`
	MaxUses         *int   `json:"max_uses" validate:"omitempty,gt=0"`
	StartDate       string `json:"start_date" validate:"required"`
	ExpiryDate      string `json:"expiry_date" validate:"required"`
}

// ValidateCouponRequest is the JSON request body for validating a coupon
// against an order amount.
type ValidateCouponRequest struct {
	Code        string `json:"code" validate:"required"`
	OrderAmount int64  `json:"order_amount" validate:"required,gt=0"`
}

// CreateCoupon handles POST /api/v1/coupons
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req CreateCouponRequest
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

	expiryDate, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "expiry_date must be in RFC3339 format"},
		})
		return
	}

	coupon, err := h.service.CreateCoupon(r.Context(), &service.CreateCouponInput{
		Code:            req.Code,
		Description:     req.Description,
		DiscountType:    req.DiscountType,
		DiscountValue:   req.DiscountValue,
		MinimumPurchase: req.MinimumPurchase,
		MaxUses:         req.MaxUses,
		StartDate:       startDate,
		ExpiryDate:      expiryDate,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: coupon})
}

// ListCoupons handles GET /api/v1/coupons
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	coupons, total, err := h.service.ListCoupons(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(coupons, total, params))
}

// ValidateCoupon handles POST /api/v1/coupons/validate
//
// An unknown or unusable coupon is reported as valid=false with a message,
// not as an error. Validation never consumes a use; that happens at checkout.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req ValidateCouponRequest
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

	result, err := h.service.ValidateCoupon(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// DeleteCoupon handles DELETE /api/v1/coupons/{id}
func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "coupon id is required"},
		})
		return
	}

	if err := h.service.DeleteCoupon(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
