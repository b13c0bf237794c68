package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent world to advance for a fixed number of ticks.
type Job struct {
	Name  string
	World *World
	Ticks int
}

// Outcome summarizes a finished job.
type Outcome struct {
	Name      string
	Ticks     int
	Bodies    int
	TotalMass float64
	Stats     Stats
}

// RunEnsemble advances every job on its own goroutine. Each world is
// touched by exactly one goroutine. The first failure cancels the rest.
func RunEnsemble(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		g.Go(func() error {
			for t := 0; t < job.Ticks; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := job.World.Update(); err != nil {
					return fmt.Errorf("%s: %w", job.Name, err)
				}
			}
			outcomes[i] = Outcome{
				Name:      job.Name,
				Ticks:     job.World.Tick(),
				Bodies:    len(job.World.Bodies()),
				TotalMass: job.World.TotalMass(),
				Stats:     job.World.Stats(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
