package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var durationBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000,
}

// URLLabelMappingFn controls the cardinality of the "url" label; callers
// usually map concrete paths back to their route template.
type URLLabelMappingFn func(c *gin.Context) string

// HTTPMetrics instruments a gin engine with request count and latency
// metrics, exposed on a dedicated listener so /metrics stays out of the
// service's own access log.
type HTTPMetrics struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec

	listenAddress string
	urlLabelFn    URLLabelMappingFn
	log           *zap.SugaredLogger
}

type Options struct {
	ListenAddress     string
	URLLabelMappingFn URLLabelMappingFn
	Logger            *zap.SugaredLogger
}

func NewHTTPMetrics(opts Options) *HTTPMetrics {
	m := &HTTPMetrics{
		reqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "url"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request latencies in milliseconds.",
			Buckets: durationBuckets,
		}, []string{"code", "method", "url"}),
		listenAddress: opts.ListenAddress,
		urlLabelFn:    opts.URLLabelMappingFn,
		log:           opts.Logger,
	}
	if m.urlLabelFn == nil {
		m.urlLabelFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}
	for _, col := range []prometheus.Collector{m.reqCnt, m.reqDur} {
		if err := prometheus.Register(col); err != nil {
			if m.log != nil {
				m.log.Errorf("metrics registration failed: %v", err)
			}
		}
	}
	return m
}

// Use attaches the middleware to the engine and starts the metrics listener.
func (m *HTTPMetrics) Use(e *gin.Engine) {
	e.Use(m.HandlerFunc())
	if m.listenAddress != "" {
		r := gin.New()
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
		go func() {
			if err := r.Run(m.listenAddress); err != nil && m.log != nil {
				m.log.Errorf("metrics listener stopped: %v", err)
			}
		}()
	} else {
		e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

func (m *HTTPMetrics) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := m.urlLabelFn(c)
		m.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		m.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(float64(time.Since(start).Milliseconds()))
	}
}
