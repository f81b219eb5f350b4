// Package metrics expõe contadores e gauges Prometheus da API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	logins       *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	messagesSent prometheus.Counter

	usersByRole         *prometheus.GaugeVec
	requestsByStatus    *prometheus.GaugeVec
	activeProfessionals prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewCollector registra as métricas no registry informado.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "care_http_requests_total",
			Help: "Requisições HTTP por rota e status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "care_http_request_duration_seconds",
			Help:    "Latência das requisições HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "care_logins_total",
			Help: "Tentativas de login por resultado",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "care_request_transitions_total",
			Help: "Mudanças de status de chamados",
		}, []string{"status"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "care_messages_sent_total",
			Help: "Mensagens enviadas",
		}),
		usersByRole: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "care_users",
			Help: "Usuários cadastrados por papel",
		}, []string{"role"}),
		requestsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "care_service_requests",
			Help: "Chamados por status",
		}, []string{"status"}),
		activeProfessionals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "care_active_professionals",
			Help: "Profissionais ativos",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.logins,
		c.transitions,
		c.messagesSent,
		c.usersByRole,
		c.requestsByStatus,
		c.activeProfessionals,
	)
	return c
}

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordTransition(status string) {
	c.transitions.WithLabelValues(status).Inc()
}

func (c *Collector) RecordMessageSent() {
	c.messagesSent.Inc()
}

func (c *Collector) SetUsers(role string, n int64) {
	c.usersByRole.WithLabelValues(role).Set(float64(n))
}

func (c *Collector) SetRequests(status string, n int64) {
	c.requestsByStatus.WithLabelValues(status).Set(float64(n))
}

func (c *Collector) SetActiveProfessionals(n int64) {
	c.activeProfessionals.Set(float64(n))
}

// Handler serve o endpoint /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
