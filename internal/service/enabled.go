package service

import "github.com/enervue/crm-sync-worker/internal/models"

// IsSyncEnabled reports whether an organization is eligible for CRM
// sync: integration on, not paused, and at least one connected account.
// Every orchestration entry point checks this before doing any work; a
// false result makes the call a successful no-op.
func IsSyncEnabled(org *models.Organization) bool {
	return org.CRMEnabled && !org.CRMPaused && len(org.CRMAccounts) > 0
}
