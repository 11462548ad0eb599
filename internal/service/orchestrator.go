package service

import (
	"context"
	"log"
	"time"

	"github.com/enervue/crm-sync-worker/internal/models"
)

// DefaultPhaseDelay is the pause between entity-kind phases of one
// organization sync, keeping runs under the CRM rate limiter.
const DefaultPhaseDelay = time.Second

// DocumentSyncer is the batch upsert pipeline as seen by the orchestrator
type DocumentSyncer interface {
	SyncDocuments(ctx context.Context, org *models.Organization, docs []models.Syncable, upserter RemoteUpserter, mapper EntityMapper, onlyAccount string)
}

// BuildingResolver retrieves the non-archived buildings among ids
type BuildingResolver interface {
	GetActiveByIDs(ctx context.Context, ids []string) ([]models.Building, error)
}

// UserResolver retrieves the non-deactivated members of an organization
type UserResolver interface {
	ListActiveForOrganization(ctx context.Context, orgID string) ([]models.User, error)
}

// EquipmentResolver retrieves the non-archived equipment of a building
type EquipmentResolver interface {
	ListActiveForBuilding(ctx context.Context, buildingID string) ([]models.Equipment, error)
}

// ProjectResolver retrieves projects by id
type ProjectResolver interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.Project, error)
}

// MeasureResolver retrieves the measures of a project
type MeasureResolver interface {
	ListForProject(ctx context.Context, projectID string) ([]models.Measure, error)
}

// Upserters holds one remote upserter per entity kind
type Upserters struct {
	Organization RemoteUpserter
	User         RemoteUpserter
	Building     RemoteUpserter
	Project      RemoteUpserter
	Measure      RemoteUpserter
	Equipment    RemoteUpserter
}

// Mappers holds one entity mapper per entity kind
type Mappers struct {
	Organization EntityMapper
	User         EntityMapper
	Building     EntityMapper
	Project      EntityMapper
	Measure      EntityMapper
	Equipment    EntityMapper
}

// Orchestrator resolves the full object graph of one organization and
// drives the pipeline once per entity kind, in dependency order.
type Orchestrator struct {
	pipeline   DocumentSyncer
	buildings  BuildingResolver
	users      UserResolver
	equipment  EquipmentResolver
	projects   ProjectResolver
	measures   MeasureResolver
	upserters  Upserters
	mappers    Mappers
	phaseDelay time.Duration
}

func NewOrchestrator(
	pipeline DocumentSyncer,
	buildings BuildingResolver,
	users UserResolver,
	equipment EquipmentResolver,
	projects ProjectResolver,
	measures MeasureResolver,
	upserters Upserters,
	mappers Mappers,
) *Orchestrator {
	return &Orchestrator{
		pipeline:   pipeline,
		buildings:  buildings,
		users:      users,
		equipment:  equipment,
		projects:   projects,
		measures:   measures,
		upserters:  upserters,
		mappers:    mappers,
		phaseDelay: DefaultPhaseDelay,
	}
}

// SyncOrganization mirrors one organization into the CRM for every
// connected account (or for accountFilter only, when given). Entity
// kinds run in a fixed order (organizations, users, buildings, projects,
// measures, equipment) because later kinds reference CRM state
// established by earlier kinds. A branch of the graph that fails to
// resolve is skipped; sibling branches proceed.
func (o *Orchestrator) SyncOrganization(ctx context.Context, org *models.Organization, accountFilter string) error {
	if !IsSyncEnabled(org) {
		return nil
	}

	log.Printf("Syncing organization %s (%s)", org.ID, org.Name)

	buildings, err := o.buildings.GetActiveByIDs(ctx, org.BuildingIDs)
	if err != nil {
		log.Printf("Warning: failed to resolve buildings for organization %s: %v", org.ID, err)
	}

	var (
		equipment      []models.Equipment
		projects       []models.Project
		seenProjectIDs = make(map[string]bool)
	)
	for i := range buildings {
		b := &buildings[i]

		eq, err := o.equipment.ListActiveForBuilding(ctx, b.ID)
		if err != nil {
			log.Printf("Warning: skipping building %s: failed to resolve equipment: %v", b.ID, err)
			continue
		}
		equipment = append(equipment, eq...)

		projectIDs := make([]string, 0, len(b.ProjectIDs))
		for _, id := range b.ProjectIDs {
			if !seenProjectIDs[id] {
				seenProjectIDs[id] = true
				projectIDs = append(projectIDs, id)
			}
		}
		projs, err := o.projects.GetByIDs(ctx, projectIDs)
		if err != nil {
			log.Printf("Warning: skipping projects of building %s: %v", b.ID, err)
			continue
		}
		projects = append(projects, projs...)
	}

	var measures []models.Measure
	for i := range projects {
		ms, err := o.measures.ListForProject(ctx, projects[i].ID)
		if err != nil {
			log.Printf("Warning: skipping measures of project %s: %v", projects[i].ID, err)
			continue
		}
		measures = append(measures, ms...)
	}

	users, err := o.users.ListActiveForOrganization(ctx, org.ID)
	if err != nil {
		log.Printf("Warning: failed to resolve users for organization %s: %v", org.ID, err)
	}

	o.pipeline.SyncDocuments(ctx, org, []models.Syncable{org}, o.upserters.Organization, o.mappers.Organization, accountFilter)
	o.pause(ctx)
	o.pipeline.SyncDocuments(ctx, org, userDocs(users), o.upserters.User, o.mappers.User, accountFilter)
	o.pause(ctx)
	o.pipeline.SyncDocuments(ctx, org, buildingDocs(buildings), o.upserters.Building, o.mappers.Building, accountFilter)
	o.pause(ctx)
	o.pipeline.SyncDocuments(ctx, org, projectDocs(projects), o.upserters.Project, o.mappers.Project, accountFilter)
	o.pause(ctx)
	o.pipeline.SyncDocuments(ctx, org, measureDocs(measures), o.upserters.Measure, o.mappers.Measure, accountFilter)
	o.pause(ctx)
	o.pipeline.SyncDocuments(ctx, org, equipmentDocs(equipment), o.upserters.Equipment, o.mappers.Equipment, accountFilter)

	log.Printf("Finished syncing organization %s", org.ID)
	return nil
}

// pause sleeps for the inter-phase delay, returning early on ctx cancel
func (o *Orchestrator) pause(ctx context.Context) {
	if o.phaseDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(o.phaseDelay):
	}
}

func userDocs(users []models.User) []models.Syncable {
	docs := make([]models.Syncable, 0, len(users))
	for i := range users {
		docs = append(docs, &users[i])
	}
	return docs
}

func buildingDocs(buildings []models.Building) []models.Syncable {
	docs := make([]models.Syncable, 0, len(buildings))
	for i := range buildings {
		docs = append(docs, &buildings[i])
	}
	return docs
}

func projectDocs(projects []models.Project) []models.Syncable {
	docs := make([]models.Syncable, 0, len(projects))
	for i := range projects {
		docs = append(docs, &projects[i])
	}
	return docs
}

func measureDocs(measures []models.Measure) []models.Syncable {
	docs := make([]models.Syncable, 0, len(measures))
	for i := range measures {
		docs = append(docs, &measures[i])
	}
	return docs
}

func equipmentDocs(equipment []models.Equipment) []models.Syncable {
	docs := make([]models.Syncable, 0, len(equipment))
	for i := range equipment {
		docs = append(docs, &equipment[i])
	}
	return docs
}
