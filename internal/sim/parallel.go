package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulators concurrently. Each simulator owns
// its scenario, so runs share no state.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

func (e *Ensemble) Len() int { return len(e.sims) }

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
