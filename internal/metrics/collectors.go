package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// CompanyCounter reports how many companies have stored statements
type CompanyCounter interface {
	CountCompanies(ctx context.Context) (int, error)
}

// RunCounter reports recorded analysis runs per agent type since a point in time
type RunCounter interface {
	CountSince(ctx context.Context, since time.Time) (map[string]uint64, error)
}

// CustomCollector collects gauges from the data stores at scrape time.
// Either source may be nil when the store is not configured.
type CustomCollector struct {
	log       *logger.Logger
	companies CompanyCounter
	runs      RunCounter
	now       func() time.Time

	// Descriptors
	totalCompanies *prometheus.Desc
	runs24h        *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(log *logger.Logger, companies CompanyCounter, runs RunCounter) *CustomCollector {
	return &CustomCollector{
		log:       log,
		companies: companies,
		runs:      runs,
		now:       time.Now,

		totalCompanies: prometheus.NewDesc(
			"finagents_companies_total",
			"Total number of companies with stored statements",
			nil, nil,
		),
		runs24h: prometheus.NewDesc(
			"finagents_analysis_runs_24h",
			"Analysis runs recorded in the last 24h",
			[]string{"agent"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalCompanies
	ch <- c.runs24h
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectCompanyCount(ctx, ch)
	c.collectRunCounts(ctx, ch)
}

func (c *CustomCollector) collectCompanyCount(ctx context.Context, ch chan<- prometheus.Metric) {
	if c.companies == nil {
		return
	}

	count, err := c.companies.CountCompanies(ctx)
	if err != nil {
		c.log.Errorw("Failed to collect company count metric", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.totalCompanies,
		prometheus.GaugeValue,
		float64(count),
	)
}

func (c *CustomCollector) collectRunCounts(ctx context.Context, ch chan<- prometheus.Metric) {
	if c.runs == nil {
		return
	}

	counts, err := c.runs.CountSince(ctx, c.now().Add(-24*time.Hour))
	if err != nil {
		c.log.Errorw("Failed to collect analysis run stats", "error", err)
		return
	}

	for agent, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			c.runs24h,
			prometheus.GaugeValue,
			float64(count),
			agent,
		)
	}
}

// RegisterCustomCollector registers the custom collector with Prometheus
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
