package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightrate/internal/refdata"
)

// RefdataHandler exposes the read-only reference listings clients need to
// build rate requests.
type RefdataHandler struct {
	data *refdata.Store
}

func NewRefdataHandler(data *refdata.Store) *RefdataHandler {
	return &RefdataHandler{data: data}
}

type portView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

func (h *RefdataHandler) Ports(c *gin.Context) {
	ports := h.data.Ports()
	out := make([]portView, 0, len(ports))
	for _, p := range ports {
		out = append(out, portView{ID: p.ID, Name: p.Name, Country: p.Country, Region: p.Region})
	}
	c.JSON(http.StatusOK, gin.H{"ports": out})
}

type indexView struct {
	Name          string  `json:"name"`
	CurrentValue  float64 `json:"current_value"`
	BaseValue     float64 `json:"base_value"`
	ChangePercent float64 `json:"change_percent"`
	Weight        float64 `json:"weight"`
	Description   string  `json:"description,omitempty"`
}

func (h *RefdataHandler) Indices(c *gin.Context) {
	indices := h.data.Indices()
	out := make([]indexView, 0, len(indices))
	for _, idx := range indices {
		out = append(out, indexView{
			Name:          idx.Name,
			CurrentValue:  idx.CurrentValue,
			BaseValue:     idx.BaseValue,
			ChangePercent: idx.ChangePercent(),
			Weight:        idx.DefaultWeight,
			Description:   idx.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"indices": out})
}
