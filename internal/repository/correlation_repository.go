package repository

import (
	"context"
	"log"
	"time"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

// CorrelationRepository persists, on each synced document, the mapping
// from connected-account principal to CRM object id.
type CorrelationRepository struct {
	db *gorm.DB
}

func NewCorrelationRepository(db *gorm.DB) *CorrelationRepository {
	return &CorrelationRepository{db: db}
}

// RecordCorrelations writes the CRM object id of every document present
// in both maps, keyed by principal. Semantics are last-write-wins per
// principal: an existing entry with the same external id is left alone,
// a stale entry is replaced, entries for other principals are untouched.
// A persistence failure is logged per document and does not block the
// remaining documents.
func (r *CorrelationRepository) RecordCorrelations(ctx context.Context, externalIDs map[string]string, docs map[string]models.Syncable, principal string) error {
	for internalID, externalID := range externalIDs {
		doc, ok := docs[internalID]
		if !ok {
			continue
		}

		updated, changed := doc.GetConnectedObjects().Upsert(principal, externalID)
		if !changed {
			continue
		}
		doc.SetConnectedObjects(updated)

		result := r.db.WithContext(ctx).Model(doc).
			Where("id = ?", internalID).
			Updates(map[string]interface{}{
				"connected_objects": updated,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			log.Printf("Warning: failed to persist correlation for document %s (account %s): %v", internalID, principal, result.Error)
			continue
		}
	}
	return nil
}
