package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/enervue/crm-sync-worker/internal/models"
)

// OrganizationStore is the organization persistence needed by triggers
type OrganizationStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.Organization, error)
	SaveAccounts(ctx context.Context, org *models.Organization) error
}

// MemberLister retrieves the current members of an organization
type MemberLister interface {
	ListActiveForOrganization(ctx context.Context, orgID string) ([]models.User, error)
}

// OrganizationSyncer runs a full sync of one organization
type OrganizationSyncer interface {
	SyncOrganization(ctx context.Context, org *models.Organization, accountFilter string) error
}

// JobEnqueuer queues background work
type JobEnqueuer interface {
	Enqueue(name string, task func(ctx context.Context) error, onTimeout func(), maxLifetime time.Duration) string
}

// OrganizationMembers pairs an affected organization with its current
// member list, returned to connect/disconnect callers.
type OrganizationMembers struct {
	Organization models.Organization
	Members      []models.User
}

// TriggerService implements the three sync trigger operations: connect
// an external account, disconnect it, force a resync. Each is scoped to
// the organizations the calling user belongs to. Sync work is queued,
// never awaited; asynchronous failures surface only in logs.
type TriggerService struct {
	orgs        OrganizationStore
	members     MemberLister
	syncer      OrganizationSyncer
	jobs        JobEnqueuer
	jobLifetime time.Duration
}

func NewTriggerService(orgs OrganizationStore, members MemberLister, syncer OrganizationSyncer, jobs JobEnqueuer, jobLifetime time.Duration) *TriggerService {
	return &TriggerService{
		orgs:        orgs,
		members:     members,
		syncer:      syncer,
		jobs:        jobs,
		jobLifetime: jobLifetime,
	}
}

// ConnectAccount records principal (with its authorization endpoints) on
// every CRM-enabled, non-paused organization the user belongs to that is
// not already connected to it, then enqueues a sync of those
// organizations restricted to that principal unless suppressSync is set.
func (s *TriggerService) ConnectAccount(ctx context.Context, userID, principal, audience, tokenEndpoint string, suppressSync bool) ([]OrganizationMembers, error) {
	orgs, err := s.orgs.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	var affected []models.Organization
	for i := range orgs {
		org := &orgs[i]
		if !org.CRMEnabled || org.CRMPaused {
			continue
		}
		if org.CRMAccounts.Contains(principal) {
			continue
		}

		org.CRMAccounts = append(org.CRMAccounts, principal)
		org.CRMAuthorizations = org.CRMAuthorizations.Upsert(models.Authorization{
			Principal:     principal,
			Audience:      audience,
			TokenEndpoint: tokenEndpoint,
		})
		if err := s.orgs.SaveAccounts(ctx, org); err != nil {
			log.Printf("Warning: failed to record account %s on organization %s: %v", principal, org.ID, err)
			continue
		}
		affected = append(affected, *org)
	}

	if !suppressSync && len(affected) > 0 {
		s.enqueueSync(fmt.Sprintf("connect-sync %s", principal), affected, principal)
	}

	return s.withMembers(ctx, affected), nil
}

// DisconnectAccount removes principal and its authorization record from
// every organization the user belongs to. No sync is enqueued;
// correlations already written for the account are left in place.
func (s *TriggerService) DisconnectAccount(ctx context.Context, userID, principal string) ([]OrganizationMembers, error) {
	orgs, err := s.orgs.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	var affected []models.Organization
	for i := range orgs {
		org := &orgs[i]
		if !org.CRMAccounts.Contains(principal) {
			continue
		}

		org.CRMAccounts = org.CRMAccounts.Remove(principal)
		org.CRMAuthorizations = org.CRMAuthorizations.Remove(principal)
		if err := s.orgs.SaveAccounts(ctx, org); err != nil {
			log.Printf("Warning: failed to remove account %s from organization %s: %v", principal, org.ID, err)
			continue
		}
		affected = append(affected, *org)
	}

	return s.withMembers(ctx, affected), nil
}

// ForceSync enqueues a full sync of every sync-eligible organization the
// user belongs to, for principal (or for all connected accounts when
// principal is empty). Returns the queued job id; the sync itself runs
// asynchronously.
func (s *TriggerService) ForceSync(ctx context.Context, userID, principal string) (string, error) {
	orgs, err := s.orgs.ListForUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list organizations: %w", err)
	}

	var eligible []models.Organization
	for i := range orgs {
		if IsSyncEnabled(&orgs[i]) {
			eligible = append(eligible, orgs[i])
		}
	}
	if len(eligible) == 0 {
		return "", nil
	}

	name := "force-sync"
	if principal != "" {
		name = fmt.Sprintf("force-sync %s", principal)
	}
	return s.enqueueSync(name, eligible, principal), nil
}

// enqueueSync queues one job syncing each organization in turn. A
// failure on one organization is logged and does not stop the rest.
func (s *TriggerService) enqueueSync(name string, orgs []models.Organization, accountFilter string) string {
	return s.jobs.Enqueue(name, func(ctx context.Context) error {
		for i := range orgs {
			if err := s.syncer.SyncOrganization(ctx, &orgs[i], accountFilter); err != nil {
				log.Printf("Warning: sync failed for organization %s: %v", orgs[i].ID, err)
			}
		}
		return nil
	}, func() {
		log.Printf("Warning: job %q exceeded its maximum lifetime", name)
	}, s.jobLifetime)
}

func (s *TriggerService) withMembers(ctx context.Context, orgs []models.Organization) []OrganizationMembers {
	result := make([]OrganizationMembers, 0, len(orgs))
	for _, org := range orgs {
		members, err := s.members.ListActiveForOrganization(ctx, org.ID)
		if err != nil {
			log.Printf("Warning: failed to list members of organization %s: %v", org.ID, err)
		}
		result = append(result, OrganizationMembers{Organization: org, Members: members})
	}
	return result
}
