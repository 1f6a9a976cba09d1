package trajectory

import "fmt"

// Series holds the four parallel sequences extracted from a history, in record order.
type Series struct {
	Steps      []int
	Integrity  []float64
	Recovery   []float64
	Resilience []float64
}

// Len is the number of records the series were extracted from.
func (s Series) Len() int { return len(s.Steps) }

// StepValues returns the steps as float64 X values for plotting.
func (s Series) StepValues() []float64 {
	xs := make([]float64, len(s.Steps))
	for i, st := range s.Steps {
		xs[i] = float64(st)
	}
	return xs
}

// Extract maps every record into the parallel sequences. No sorting, filtering or
// deduplication happens. The first bad record aborts extraction with a *RecordError.
func Extract(h History) (Series, error) {
	s := Series{
		Steps:      make([]int, 0, len(h)),
		Integrity:  make([]float64, 0, len(h)),
		Recovery:   make([]float64, 0, len(h)),
		Resilience: make([]float64, 0, len(h)),
	}
	for i, raw := range h {
		r, err := Decode(i, raw)
		if err != nil {
			return Series{}, err
		}
		s.Steps = append(s.Steps, r.Step)
		s.Integrity = append(s.Integrity, r.FunctionalIntegrity)
		s.Recovery = append(s.Recovery, r.RecoveryCapacity)
		s.Resilience = append(s.Resilience, r.ResiliencePotential)
	}
	return s, nil
}

// Summary captures the end state of a trajectory for textual reports.
type Summary struct {
	Records         int
	FirstStep       int
	LastStep        int
	FinalIntegrity  float64
	FinalRecovery   float64
	FinalResilience float64
}

// Summarize reports the last values of each series. It fails on an empty series.
func Summarize(s Series) (Summary, error) {
	n := s.Len()
	if n == 0 {
		return Summary{}, fmt.Errorf("summarize: empty history")
	}
	return Summary{
		Records:         n,
		FirstStep:       s.Steps[0],
		LastStep:        s.Steps[n-1],
		FinalIntegrity:  s.Integrity[n-1],
		FinalRecovery:   s.Recovery[n-1],
		FinalResilience: s.Resilience[n-1],
	}, nil
}
