package site

import "github.com/prometheus/client_golang/prometheus"

func (b *Builder) BuildsCounter(status string) prometheus.Counter {
	return b.builds.WithLabelValues(status)
}
