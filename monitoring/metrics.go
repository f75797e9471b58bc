package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarchlab/dtnsim/tracing"
)

const metricsNamespace = "dtnsim"

// statsCollector exports the statistics of a simulation as Prometheus
// metrics. Values are read at scrape time.
type statsCollector struct {
	monitor *Monitor

	now      *prometheus.Desc
	messages *prometheus.Desc
	ratios   *prometheus.Desc
	nodes    *prometheus.Desc
}

func newStatsCollector(m *Monitor) *statsCollector {
	return &statsCollector{
		monitor: m,
		now: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "sim_time_seconds"),
			"Current simulated time.", nil, nil),
		messages: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "messages"),
			"Number of message events by kind.", []string{"event"}, nil),
		ratios: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "report"),
			"Derived message statistics.", []string{"stat"}, nil),
		nodes: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "nodes"),
			"Number of nodes in the world.", nil, nil),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.now
	ch <- c.messages
	ch <- c.ratios
	ch <- c.nodes
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.monitor

	if m.engine != nil {
		ch <- prometheus.MustNewConstMetric(c.now,
			prometheus.GaugeValue, float64(m.engine.CurrentTime()))
	}

	if m.world != nil {
		var numNodes int
		m.inspect(func() { numNodes = len(m.world.Nodes()) })

		ch <- prometheus.MustNewConstMetric(c.nodes,
			prometheus.GaugeValue, float64(numNodes))
	}

	if m.stats == nil {
		return
	}

	s := m.stats.Stats()
	c.collectCounts(ch, s)

	for stat, v := range map[string]float64{
		"delivery_prob": s.DeliveryProb,
		"overhead":      s.Overhead,
		"latency_avg":   s.LatencyAvg,
		"hop_count_avg": s.HopCountAvg,
	} {
		ch <- prometheus.MustNewConstMetric(c.ratios,
			prometheus.GaugeValue, v, stat)
	}
}

func (c *statsCollector) collectCounts(
	ch chan<- prometheus.Metric,
	s tracing.Stats,
) {
	for event, v := range map[string]int{
		"created":   s.Created,
		"started":   s.Started,
		"relayed":   s.Relayed,
		"aborted":   s.Aborted,
		"dropped":   s.Dropped,
		"delivered": s.Delivered,
	} {
		ch <- prometheus.MustNewConstMetric(c.messages,
			prometheus.CounterValue, float64(v), event)
	}
}

func (m *Monitor) metricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newStatsCollector(m))

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
