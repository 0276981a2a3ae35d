package extract

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess  = "success"
	outcomeTooShort = "too_short"
	outcomeError    = "error"
)

// Metrics counts strategy attempts and sentinel results.
// A nil *Metrics records nothing.
type Metrics struct {
	attempts  *prometheus.CounterVec
	sentinels prometheus.Counter
}

// NewMetrics registers the extraction collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_extraction_attempts_total",
				Help: "PDF text extraction attempts by strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		),
		sentinels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_extraction_sentinel_total",
			Help: "Extractions where no strategy produced usable text.",
		}),
	}
	if err := reg.Register(m.attempts); err != nil {
		return nil, err
	}
	if err := reg.Register(m.sentinels); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(strategy, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(strategy, outcome).Inc()
}

func (m *Metrics) observeSentinel() {
	if m == nil {
		return
	}
	m.sentinels.Inc()
}
