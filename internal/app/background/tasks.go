package background

import (
	"context"
	"errors"
	"sync"
)

// BackgroundTasks owns the long-running goroutines: the sweeper ticker and
// the settlement worker. Either may be nil when disabled.
type BackgroundTasks struct {
	Sweeper *Sweeper
	Worker  *SettlementWorker

	wg sync.WaitGroup
}

func NewBackgroundTasks(sweeper *Sweeper, worker *SettlementWorker) *BackgroundTasks {
	return &BackgroundTasks{
		Sweeper: sweeper,
		Worker:  worker,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.Sweeper != nil {
		bt.wg.Add(1)
		go func() {
			defer bt.wg.Done()
			bt.Sweeper.Run(ctx)
		}()
	}
	if bt.Worker != nil {
		bt.wg.Add(1)
		go func() {
			defer bt.wg.Done()
			if err := bt.Worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				bt.Worker.logger.Error("settlement worker stopped", "error", err)
			}
		}()
	}
}

// Wait blocks until every started task has returned.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}
