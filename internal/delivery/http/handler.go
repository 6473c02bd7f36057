package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ProductExtractor recovers product information from a pasted link
type ProductExtractor interface {
	ExtractProductInfo(ctx context.Context, rawURL string) (*domain.ExtractionResult, error)
}

// PurchaseManager manages tracked purchases
type PurchaseManager interface {
	Create(ctx context.Context, input domain.PurchaseInput) (*domain.Purchase, error)
	Get(ctx context.Context, id string) (*domain.Purchase, error)
	List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error)
	Update(ctx context.Context, id string, input domain.PurchaseInput) (*domain.Purchase, error)
	Delete(ctx context.Context, id string) error
	Totals(ctx context.Context) (*domain.PurchaseTotals, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extractor ProductExtractor
	purchases PurchaseManager
}

// NewHandler creates a new HTTP handler
func NewHandler(extractor ProductExtractor, purchases PurchaseManager) *Handler {
	return &Handler{
		extractor: extractor,
		purchases: purchases,
	}
}

// ExtractRequest is the body of a link extraction request
type ExtractRequest struct {
	URL string `json:"url"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "budgettracker-backend",
		"version": "1.0.0",
	})
}

// ExtractProductInfo handles link extraction requests. Every failure is a 400
// with a message the form can show next to the link field.
func (h *Handler) ExtractProductInfo(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, domain.ErrInvalidURL.Error())
		return
	}

	result, err := h.extractor.ExtractProductInfo(c.Request.Context(), req.URL)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if errors.As(err, &extractionErr) {
			respondError(c, http.StatusBadRequest, extractionErr.Error())
			return
		}
		log.Error().Err(err).Msg("unexpected extraction error")
		respondError(c, http.StatusBadRequest, domain.ErrExtractionFailed.Error())
		return
	}

	respondData(c, http.StatusOK, result)
}

// ListPurchases returns all purchases, optionally filtered by ?room=
func (h *Handler) ListPurchases(c *gin.Context) {
	purchases, err := h.purchases.List(c.Request.Context(), domain.PurchaseFilter{Room: c.Query("room")})
	if err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, purchases)
}

// CreatePurchase stores a new purchase
func (h *Handler) CreatePurchase(c *gin.Context) {
	var input domain.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, err := h.purchases.Create(c.Request.Context(), input)
	if err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	respondData(c, http.StatusCreated, purchase)
}

// GetPurchase returns a single purchase
func (h *Handler) GetPurchase(c *gin.Context) {
	purchase, err := h.purchases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, purchase)
}

// UpdatePurchase replaces the editable fields of a purchase
func (h *Handler) UpdatePurchase(c *gin.Context) {
	var input domain.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, err := h.purchases.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, purchase)
}

// DeletePurchase removes a purchase
func (h *Handler) DeletePurchase(c *gin.Context) {
	if err := h.purchases.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetTotals returns the running totals
func (h *Handler) GetTotals(c *gin.Context) {
	totals, err := h.purchases.Totals(c.Request.Context())
	if err != nil {
		h.handlePurchaseError(c, err)
		return
	}
	respondData(c, http.StatusOK, totals)
}

func (h *Handler) handlePurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPurchaseNotFound):
		respondError(c, http.StatusNotFound, domain.ErrPurchaseNotFound.Error())
	case errors.Is(err, domain.ErrInvalidPurchase):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("purchase request failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
