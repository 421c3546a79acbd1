package monitor

import (
	"github.com/coreman2200/funtimes-dots/model"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	framesDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "frames_total"),
		"Transmissions sent to the strip",
		nil, nil)
	rendersDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "renders_total"),
		"Recompositions of the pixel buffer",
		nil, nil)
	skippedDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "skipped_renders_total"),
		"Frames sent from the previous buffer",
		nil, nil)
	bytesDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "bytes_total"),
		"Bytes written to the output",
		nil, nil)
	patternsDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "patterns"),
		"Patterns on the strip",
		nil, nil)
	actionsDesc = prometheus.NewDesc(
		prometheus.BuildFQName("dots", "", "actions"),
		"Actions attached to patterns",
		nil, nil)
)

// Collector exposes strip counters as prometheus metrics.
type Collector struct {
	stats func() model.Stats
}

func NewCollector(stats func() model.Stats) *Collector {
	return &Collector{stats: stats}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- framesDesc
	ch <- rendersDesc
	ch <- skippedDesc
	ch <- bytesDesc
	ch <- patternsDesc
	ch <- actionsDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.stats()
	ch <- prometheus.MustNewConstMetric(framesDesc, prometheus.CounterValue, float64(st.Frames))
	ch <- prometheus.MustNewConstMetric(rendersDesc, prometheus.CounterValue, float64(st.Renders))
	ch <- prometheus.MustNewConstMetric(skippedDesc, prometheus.CounterValue, float64(st.Skipped))
	ch <- prometheus.MustNewConstMetric(bytesDesc, prometheus.CounterValue, float64(st.Bytes))
	ch <- prometheus.MustNewConstMetric(patternsDesc, prometheus.GaugeValue, float64(st.Patterns))
	ch <- prometheus.MustNewConstMetric(actionsDesc, prometheus.GaugeValue, float64(st.Actions))
}
