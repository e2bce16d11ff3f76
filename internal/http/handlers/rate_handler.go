package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"freightrate/internal/modules/itinerary"
	"freightrate/internal/modules/multimodal"
	"freightrate/internal/modules/pricing"
)

// Quoter interfaces keep the handler testable without wiring real resolvers.
type EuropeQuoter interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

type MultimodalQuoter interface {
	Quote(ctx context.Context, req multimodal.Request) (multimodal.Quote, error)
}

type OverlandQuoter interface {
	Quote(ctx context.Context, req itinerary.Request) (itinerary.Quote, error)
}

type RateHandler struct {
	europe     EuropeQuoter
	multimodal MultimodalQuoter
	overland   OverlandQuoter
}

func NewRateHandler(europe EuropeQuoter, mm MultimodalQuoter, overland OverlandQuoter) *RateHandler {
	return &RateHandler{europe: europe, multimodal: mm, overland: overland}
}

type europeRateReq struct {
	FromCountry string  `json:"fromCountry"`
	ToCountry   string  `json:"toCountry"`
	FromZip     string  `json:"fromZip"`
	ToZip       string  `json:"toZip"`
	LDM         float64 `json:"ldm"`
	Weight      float64 `json:"weight"`
	Month       int     `json:"month,omitempty"`
}

func (h *RateHandler) Europe(c *gin.Context) {
	var req europeRateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.FromCountry == "" || req.ToCountry == "" || req.FromZip == "" || req.ToZip == "" {
		writeError(c, http.StatusBadRequest, "missing required fields")
		return
	}
	if !isValidPostalCode(req.FromZip) || !isValidPostalCode(req.ToZip) {
		writeError(c, http.StatusBadRequest, "invalid postal code format")
		return
	}
	if req.Month < 0 || req.Month > 12 {
		writeError(c, http.StatusBadRequest, "month must be between 1 and 12, or 0 for the current month")
		return
	}

	quote, err := h.europe.Quote(c.Request.Context(), pricing.Request{
		FromCountry: normalizeCountry(req.FromCountry),
		FromPostal:  strings.TrimSpace(req.FromZip),
		ToCountry:   normalizeCountry(req.ToCountry),
		ToPostal:    strings.TrimSpace(req.ToZip),
		LDM:         req.LDM,
		WeightKg:    req.Weight,
		Month:       time.Month(req.Month),
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type multimodalRateReq struct {
	OriginPort      string  `json:"originPort"`
	DestinationPort string  `json:"destinationPort"`
	ContainerType   string  `json:"containerType"`
	Weight          float64 `json:"weight,omitempty"`
}

func (h *RateHandler) Multimodal(c *gin.Context) {
	var req multimodalRateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OriginPort == "" || req.DestinationPort == "" {
		writeError(c, http.StatusBadRequest, "missing required fields")
		return
	}

	quote, err := h.multimodal.Quote(c.Request.Context(), multimodal.Request{
		OriginPortID:      strings.TrimSpace(req.OriginPort),
		DestinationPortID: strings.TrimSpace(req.DestinationPort),
		ContainerType:     strings.ToLower(strings.TrimSpace(req.ContainerType)),
		WeightKg:          req.Weight,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type overlandRateReq struct {
	FromCountry string  `json:"fromCountry"`
	FromZip     string  `json:"fromZip"`
	ToCountry   string  `json:"toCountry"`
	ToCity      string  `json:"toCity"`
	LDM         float64 `json:"ldm"`
	Weight      float64 `json:"weight"`
}

func (h *RateHandler) Overland(c *gin.Context) {
	var req overlandRateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.FromCountry == "" || req.FromZip == "" || req.ToCountry == "" || req.ToCity == "" {
		writeError(c, http.StatusBadRequest, "missing required fields")
		return
	}
	if !isValidPostalCode(req.FromZip) {
		writeError(c, http.StatusBadRequest, "invalid postal code format")
		return
	}

	quote, err := h.overland.Quote(c.Request.Context(), itinerary.Request{
		FromCountry: normalizeCountry(req.FromCountry),
		FromPostal:  strings.TrimSpace(req.FromZip),
		ToCountry:   normalizeCountry(req.ToCountry),
		ToCity:      strings.TrimSpace(req.ToCity),
		LDM:         req.LDM,
		WeightKg:    req.Weight,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func normalizeCountry(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
