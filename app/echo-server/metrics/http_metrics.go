package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reco_http_in_flight_requests",
		Help: "HTTP requests currently being served",
	})
)

func Init() {
	prometheus.MustRegister(RequestsTotal, InFlight)
}

// Middleware counts requests by matched route, not raw path, to keep
// label cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			InFlight.Inc()
			defer InFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RequestsTotal.WithLabelValues(
				c.Request().Method,
				route,
				strconv.Itoa(c.Response().Status),
			).Inc()

			return nil
		}
	}
}
