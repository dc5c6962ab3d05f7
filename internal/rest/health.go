package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"productReco/business/catalog"
)

type CatalogSizer interface {
	Sizes() catalog.Sizes
}

type HealthHandler struct {
	catalog CatalogSizer
	mode    string
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Mode    string        `json:"mode"`
	Catalog catalog.Sizes `json:"catalog"`
}

func NewHealthHandler(c CatalogSizer, mode string) *HealthHandler {
	return &HealthHandler{catalog: c, mode: mode}
}

// GET /healthz
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Mode:    h.mode,
		Catalog: h.catalog.Sizes(),
	})
}
