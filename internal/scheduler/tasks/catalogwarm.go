package tasks

import (
	"context"

	"github.com/cadenza/cadenza/internal/catalog"
	"github.com/cadenza/cadenza/internal/history"
	"github.com/cadenza/cadenza/internal/scheduler"
)

const CatalogWarmTaskID = "catalog-warm"

// warmQueryCount bounds how many recent queries get replayed per run.
const warmQueryCount = 5

// RegisterCatalogWarmTask registers the catalog warm task with the scheduler.
// The task replays the most frequent recent searches so the result cache and
// the provider's bearer token stay warm. Runs hourly and once at startup.
func RegisterCatalogWarmTask(sched *scheduler.Scheduler, catalogService *catalog.Service, historyService *history.Service) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          CatalogWarmTaskID,
		Name:        "Catalog Warm",
		Description: "Replays the most frequent searches to keep the catalog cache warm",
		Cron:        "0 * * * *",
		RunOnStart:  true,
		Func: func(ctx context.Context) error {
			if !catalogService.Status().Configured {
				return nil
			}

			top, err := historyService.Top(ctx, warmQueryCount)
			if err != nil {
				return err
			}

			for _, entry := range top {
				if _, err := catalogService.QuickFind(ctx, entry.Query, 10); err != nil {
					return err
				}
			}

			return nil
		},
	})
}
