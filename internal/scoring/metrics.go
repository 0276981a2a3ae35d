package scoring

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts calls to the scoring model by call kind and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_scoring_requests_total",
			Help: "Total calls to the scoring model by call and outcome.",
		}, []string{"call", "outcome"}),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(call, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(call, outcome).Inc()
}
