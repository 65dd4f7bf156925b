package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 收集登入流程與請求的 Prometheus 指標
type Collector struct {
	logins          *prometheus.CounterVec
	gateDecisions   *prometheus.CounterVec
	refreshes       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	gatherer        prometheus.Gatherer
}

// NewCollector 建立 Collector 並註冊到指定的 registry
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodiary_login_total",
			Help: "外部登入的次數",
		}, []string{"provider", "result"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodiary_auth_gate_total",
			Help: "驗證閘門的判定結果",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodiary_token_refresh_total",
			Help: "access token 換發的次數",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moodiary_http_request_duration_seconds",
			Help:    "HTTP 請求的處理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
	reg.MustRegister(c.logins, c.gateDecisions, c.refreshes, c.requestDuration)
	return c
}

func (c *Collector) RecordLogin(provider, result string) {
	c.logins.WithLabelValues(provider, result).Inc()
}

func (c *Collector) RecordGate(result string) {
	c.gateDecisions.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRefresh(result string) {
	c.refreshes.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler 回傳 /metrics 用的 handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// outcome 將錯誤轉為指標的 result 標籤
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return errorCode(err)
}

// RequestMetrics 記錄每個請求的處理時間
func (c *Collector) RequestMetrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
