package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

const (
	RowsIngested      = ports.MetricRowsIngested
	RowsSkipped       = ports.MetricRowsSkipped
	SnapshotsBuilt    = ports.MetricSnapshots
	FieldsUnparsable  = ports.MetricFieldsUnparsable
	RowsCollected     = ports.MetricRowsCollected
	CollectErrors     = ports.MetricCollectErrors
	EntitiesGauge     = ports.MetricEntities
	ComputeLatency    = ports.MetricComputeLatency
	CollectLatency    = ports.MetricCollectLatency
	milestonesCounter = "viewpulse_milestones_total"
)

type PromObs struct {
	log        zerolog.Logger
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histos     map[string]prometheus.Observer
	milestones *prometheus.CounterVec
}

// NewPromObs registers the ViewPulse collectors on reg and logs through log.
func NewPromObs(reg prometheus.Registerer, log zerolog.Logger) *PromObs {
	newCounter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}

	ingested := newCounter(RowsIngested, "Raw series rows read by compute passes.")
	skipped := newCounter(RowsSkipped, "Raw rows skipped because they carry no video id.")
	snapshots := newCounter(SnapshotsBuilt, "Snapshots added to entity series.")
	unparsable := newCounter(FieldsUnparsable, "Timestamp or value fields that could not be parsed.")
	collected := newCounter(RowsCollected, "Statistics rows appended by collection runs.")
	collectErrs := newCounter(CollectErrors, "Collection runs that failed.")

	entities := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: EntitiesGauge,
		Help: "Entities in the last compute pass.",
	})
	compute := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ComputeLatency,
		Help:    "Wall time of a compute pass from first row to report written.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	collect := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    CollectLatency,
		Help:    "Wall time of a collection run.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})
	milestones := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: milestonesCounter,
		Help: "Milestone cells produced, by milestone and outcome.",
	}, []string{"milestone", "outcome"})

	reg.MustRegister(ingested, skipped, snapshots, unparsable, collected, collectErrs, entities, compute, collect, milestones)

	return &PromObs{
		log: log,
		counters: map[string]prometheus.Counter{
			RowsIngested:     ingested,
			RowsSkipped:      skipped,
			SnapshotsBuilt:   snapshots,
			FieldsUnparsable: unparsable,
			RowsCollected:    collected,
			CollectErrors:    collectErrs,
		},
		gauges: map[string]prometheus.Gauge{
			EntitiesGauge: entities,
		},
		histos: map[string]prometheus.Observer{
			ComputeLatency: compute,
			CollectLatency: collect,
		},
		milestones: milestones,
	}
}

func withFields(ev *zerolog.Event, fields []ports.Field) *zerolog.Event {
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	return ev
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	withFields(p.log.Info(), fields).Msg(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	withFields(p.log.Error().Err(err), fields).Msg(msg)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	withFields(p.log.WithLevel(zerolog.FatalLevel).Err(err), fields).Msg(msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordMilestone(name domain.MilestoneName, present bool) {
	outcome := "absent"
	if present {
		outcome = "present"
	}
	p.milestones.WithLabelValues(string(name), outcome).Inc()
}

func (p *PromObs) RecordSkipped(row domain.RawRow, reason string) {
	p.IncCounter(RowsSkipped, 1)
	p.log.Debug().Str("reason", reason).Str("label", row.Label).Msg("row_skipped")
}

var _ ports.Observability = (*PromObs)(nil)

// WriteTextfile dumps every metric gathered by g in the text exposition
// format, for the node-exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
