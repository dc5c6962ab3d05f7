package router

import (
	"productReco/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Recommend)
	reco.GET("/by-user-id", handler.ByUserID)
	reco.GET("/popular", handler.Popular)
	reco.GET("/demo-users", handler.DemoUsers)
}

func SetHealthRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/healthz", handler.Health)
}
