package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/enervue/crm-sync-worker/internal/models"
)

// OrganizationLister retrieves every sync-enabled organization
type OrganizationLister interface {
	ListSyncEnabled(ctx context.Context) ([]models.Organization, error)
}

// OrganizationSyncer runs a full sync of one organization
type OrganizationSyncer interface {
	SyncOrganization(ctx context.Context, org *models.Organization, accountFilter string) error
}

// JobEnqueuer queues background work
type JobEnqueuer interface {
	Enqueue(name string, task func(ctx context.Context) error, onTimeout func(), maxLifetime time.Duration) string
}

// Watcher periodically enqueues a full sync (all connected accounts) of
// every sync-enabled organization, so tenants converge with the CRM
// without manual force-syncs.
type Watcher struct {
	interval    time.Duration
	jobLifetime time.Duration
	orgs        OrganizationLister
	syncer      OrganizationSyncer
	jobs        JobEnqueuer
}

func New(interval, jobLifetime time.Duration, orgs OrganizationLister, syncer OrganizationSyncer, jobs JobEnqueuer) *Watcher {
	return &Watcher{
		interval:    interval,
		jobLifetime: jobLifetime,
		orgs:        orgs,
		syncer:      syncer,
		jobs:        jobs,
	}
}

// Start begins the scheduled-sync loop
func (w *Watcher) Start(ctx context.Context) error {
	log.Println("Starting scheduled sync watcher...")

	// Enqueue an initial pass so a fresh deploy converges immediately
	if err := w.enqueueScheduledSync(ctx); err != nil {
		log.Printf("Warning: failed to enqueue scheduled sync on startup: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watcher shutting down...")
			return ctx.Err()
		case <-ticker.C:
			if err := w.enqueueScheduledSync(ctx); err != nil {
				log.Printf("Error enqueueing scheduled sync: %v", err)
			}
		}
	}
}

// enqueueScheduledSync queues one job syncing every sync-enabled
// organization for all of its connected accounts
func (w *Watcher) enqueueScheduledSync(ctx context.Context) error {
	orgs, err := w.orgs.ListSyncEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sync-enabled organizations: %w", err)
	}
	if len(orgs) == 0 {
		return nil
	}

	log.Printf("Enqueueing scheduled sync for %d organization(s)", len(orgs))

	w.jobs.Enqueue("scheduled-sync", func(jobCtx context.Context) error {
		for i := range orgs {
			if err := w.syncer.SyncOrganization(jobCtx, &orgs[i], ""); err != nil {
				log.Printf("Warning: scheduled sync failed for organization %s: %v", orgs[i].ID, err)
			}
		}
		return nil
	}, func() {
		log.Println("Warning: scheduled sync job exceeded its maximum lifetime")
	}, w.jobLifetime)

	return nil
}
