package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const namespace = "address_tiles"

var (
	// Recomputations - пересчеты тайлов по типу сущности и исходу
	Recomputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recompute",
		Name:      "total",
		Help:      "Total tile recomputations by entity kind and outcome",
	}, []string{"kind", "outcome"})

	RecomputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recompute",
		Name:      "duration_seconds",
		Help:      "Duration of a single entity tile recomputation",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind"})

	TilesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cover",
		Name:      "tiles_total",
		Help:      "Total tile identifiers produced by coverage computation",
	}, []string{"geometry"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})
)

// ObserveRecompute фиксирует исход и длительность пересчета одной сущности
func ObserveRecompute(kind string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	Recomputations.WithLabelValues(kind, outcome).Inc()
	RecomputeDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// Middleware - метрики HTTP запросов. Ошибку цепочки сразу отдает в
// ErrorHandler приложения, чтобы учесть итоговый статус ответа.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Строки fiber ссылаются на буфер запроса, который переиспользуется
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)
		status := c.Response().StatusCode()

		httpRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return nil
	}
}

// Handler отдает метрики Prometheus через fiber
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
