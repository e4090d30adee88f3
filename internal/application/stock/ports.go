package stock

import "time"

// Alcances del cálculo.
const (
	ScopeVariant = "variant"
	ScopeFamily  = "family"
)

// Recorder recibe las métricas del cálculo. Lo implementa infrastructure/metrics.
type Recorder interface {
	LedgerQuery(scope string)
	Computation(scope string, err error, elapsed time.Duration)
	Warehouses(n int)
}

type nopRecorder struct{}

func (nopRecorder) LedgerQuery(string)                       {}
func (nopRecorder) Computation(string, error, time.Duration) {}
func (nopRecorder) Warehouses(int)                           {}
