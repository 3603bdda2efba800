package experiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Parallel runs independent Online experiments concurrently. Each
// Online experiment must own its environment, policy and trackers, so
// that no mutable state is shared between goroutines.
type Parallel struct {
	experiments []*Online
}

// NewParallel returns a new Parallel experiment
func NewParallel(experiments ...*Online) (*Parallel, error) {
	if len(experiments) == 0 {
		return nil, fmt.Errorf("newParallel: no experiments given")
	}
	return &Parallel{experiments}, nil
}

// Run runs every experiment to its step budget
func (p *Parallel) Run(ctx context.Context) error {
	return p.each(func(o *Online) error {
		return o.Run(ctx)
	})
}

// RunEpisodes runs n episodes of every experiment
func (p *Parallel) RunEpisodes(ctx context.Context, n int) error {
	return p.each(func(o *Online) error {
		return o.RunEpisodes(ctx, n)
	})
}

// Save saves the data tracked by every experiment
func (p *Parallel) Save() error {
	var errs []error
	for _, o := range p.experiments {
		if err := o.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Summaries returns the episode summaries of each experiment, in the
// order the experiments were given
func (p *Parallel) Summaries() [][]Summary {
	summaries := make([][]Summary, len(p.experiments))
	for i, o := range p.experiments {
		summaries[i] = o.Summaries()
	}
	return summaries
}

// Len returns the number of experiments
func (p *Parallel) Len() int {
	return len(p.experiments)
}

// each calls run on each experiment in its own goroutine and joins the
// errors returned
func (p *Parallel) each(run func(*Online) error) error {
	errs := make([]error, len(p.experiments))

	var wg sync.WaitGroup
	for i, o := range p.experiments {
		wg.Add(1)
		go func(i int, o *Online) {
			defer wg.Done()
			if err := run(o); err != nil {
				errs[i] = fmt.Errorf("experiment %d: %w", i, err)
			}
		}(i, o)
	}
	wg.Wait()

	return errors.Join(errs...)
}
