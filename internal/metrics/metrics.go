package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"triviaworlds/internal/domain"
)

const namespace = "triviaworlds"

// Metrics groups the game counters. A nil *Metrics records nothing.
type Metrics struct {
	Answers        *prometheus.CounterVec
	LevelsFinished *prometheus.CounterVec
	GamesCompleted prometheus.Counter
	ActiveSessions prometheus.Gauge
	BankLoads      *prometheus.CounterVec
}

// New registers the game metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Submitted answers by correctness.",
		}, []string{"result"}),
		LevelsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_finished_total",
			Help:      "Finished level attempts by outcome.",
		}, []string{"outcome"}),
		GamesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Sessions in which every level was passed.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open player sessions.",
		}),
		BankLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bank_loads_total",
			Help:      "Question bank loads from the backing source.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveAnswer(correct bool) {
	if m == nil {
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLevel(outcome domain.LevelOutcome, gameComplete bool) {
	if m == nil {
		return
	}
	m.LevelsFinished.WithLabelValues(outcome.String()).Inc()
	if gameComplete {
		m.GamesCompleted.Inc()
	}
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func (m *Metrics) ObserveBankLoad(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BankLoads.WithLabelValues(result).Inc()
}
