package service

import (
	"context"
	"fmt"
	"log"

	"github.com/enervue/crm-sync-worker/internal/crm"
	"github.com/enervue/crm-sync-worker/internal/models"
)

// PageSize is the maximum number of records per remote upsert call. The
// CRM batch endpoint rejects pages of 50; its effective limit is one
// less than the documented batch size.
const PageSize = 49

// SessionBroker exchanges an account principal for an authenticated CRM
// session
type SessionBroker interface {
	GetConnection(ctx context.Context, principal, audience, tokenEndpoint string) (*crm.Session, error)
}

// RemoteUpserter posts one page of mapped records to the CRM and
// returns positional correlation results
type RemoteUpserter interface {
	UpsertPage(ctx context.Context, session *crm.Session, records []crm.Record, internalIDs []string) ([]crm.UpsertResult, error)
}

// EntityMapper projects one internal document into its external-schema
// record. Mappers must not mutate the document.
type EntityMapper interface {
	Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error)
}

// CorrelationStore persists external object ids back onto documents
type CorrelationStore interface {
	RecordCorrelations(ctx context.Context, externalIDs map[string]string, docs map[string]models.Syncable, principal string) error
}

// Pipeline is the generic batched-upsert pipeline: it pages homogeneous
// document lists through an entity mapper, posts each page via a remote
// upserter, and feeds resulting external ids into the correlation store.
type Pipeline struct {
	broker       SessionBroker
	correlations CorrelationStore
}

func NewPipeline(broker SessionBroker, correlations CorrelationStore) *Pipeline {
	return &Pipeline{
		broker:       broker,
		correlations: correlations,
	}
}

// SyncDocuments syncs docs to every connected account of org (or to
// onlyAccount when given). Accounts are processed sequentially to bound
// load on the CRM. Failures are isolated per account, per document, and
// per page; none of them escapes this call. One account's failure must
// never prevent syncing on another account or for another entity kind.
func (p *Pipeline) SyncDocuments(ctx context.Context, org *models.Organization, docs []models.Syncable, upserter RemoteUpserter, mapper EntityMapper, onlyAccount string) {
	if !IsSyncEnabled(org) || len(docs) == 0 {
		return
	}

	accounts := []string(org.CRMAccounts)
	if onlyAccount != "" {
		accounts = []string{onlyAccount}
	}

	for _, account := range accounts {
		if err := p.syncAccount(ctx, org, docs, upserter, mapper, account); err != nil {
			log.Printf("Warning: sync failed for account %s on organization %s: %v", account, org.ID, err)
		}
	}
}

// syncAccount runs one account: authenticate, map, page, upsert, record
func (p *Pipeline) syncAccount(ctx context.Context, org *models.Organization, docs []models.Syncable, upserter RemoteUpserter, mapper EntityMapper, account string) error {
	auth, _ := org.CRMAuthorizations.Find(account)

	session, err := p.broker.GetConnection(ctx, account, auth.Audience, auth.TokenEndpoint)
	if err != nil {
		return fmt.Errorf("failed to get CRM connection: %w", err)
	}

	page := make([]crm.Record, 0, PageSize)
	pageIDs := make([]string, 0, PageSize)
	pageDocs := make(map[string]models.Syncable, PageSize)

	for _, doc := range docs {
		record, err := mapper.Map(ctx, doc, org)
		if err != nil {
			log.Printf("Warning: failed to map document %s for account %s: %v", doc.GetID(), account, err)
			continue
		}

		page = append(page, record)
		pageIDs = append(pageIDs, doc.GetID())
		pageDocs[doc.GetID()] = doc

		if len(page) == PageSize {
			p.flushPage(ctx, session, upserter, page, pageIDs, pageDocs, account)
			page = make([]crm.Record, 0, PageSize)
			pageIDs = make([]string, 0, PageSize)
			pageDocs = make(map[string]models.Syncable, PageSize)
		}
	}

	if len(page) > 0 {
		p.flushPage(ctx, session, upserter, page, pageIDs, pageDocs, account)
	}
	return nil
}

// flushPage posts one page and records its correlations. A transport
// failure drops the page; correlations from earlier pages remain valid.
func (p *Pipeline) flushPage(ctx context.Context, session *crm.Session, upserter RemoteUpserter, page []crm.Record, pageIDs []string, pageDocs map[string]models.Syncable, account string) {
	results, err := upserter.UpsertPage(ctx, session, page, pageIDs)
	if err != nil {
		log.Printf("Warning: upsert page of %d record(s) failed for account %s: %v", len(page), account, err)
		return
	}

	externalIDs := make(map[string]string, len(results))
	for _, r := range results {
		if r.ErrorMessage != "" {
			log.Printf("Warning: CRM rejected document %s for account %s: %s", r.InternalID, account, r.ErrorMessage)
			continue
		}
		externalIDs[r.InternalID] = r.ExternalID
	}

	if len(externalIDs) == 0 {
		return
	}
	if err := p.correlations.RecordCorrelations(ctx, externalIDs, pageDocs, account); err != nil {
		log.Printf("Warning: failed to record correlations for account %s: %v", account, err)
	}
}
