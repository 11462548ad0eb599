// Package mapper projects internal documents into their CRM schema.
// Each mapper is a pure projection: it never mutates the document and
// references parent objects through external-id fields carrying internal
// document ids, so the CRM resolves relationships regardless of which
// account the page is upserted under.
package mapper

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/crm"
	"github.com/enervue/crm-sync-worker/internal/models"
)

// OrganizationMapper projects an organization into a CRM account record
type OrganizationMapper struct{}

func (OrganizationMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	o, ok := doc.(*models.Organization)
	if !ok {
		return nil, fmt.Errorf("organization mapper: unexpected document type %T", doc)
	}
	return crm.Record{
		"Name": o.Name,
		"Type": "Customer",
	}, nil
}

// UserMapper projects a user into a CRM contact record
type UserMapper struct{}

func (UserMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	u, ok := doc.(*models.User)
	if !ok {
		return nil, fmt.Errorf("user mapper: unexpected document type %T", doc)
	}
	record := crm.Record{
		"FirstName": u.FirstName,
		"LastName":  u.LastName,
		"Email":     u.Email,
		"Account": crm.Record{
			"Org_ID__c": org.ID,
		},
	}
	if u.Title != nil {
		record["Title"] = *u.Title
	}
	if u.Phone != nil {
		record["Phone"] = *u.Phone
	}
	return record, nil
}

// BuildingMapper projects a building into its CRM record
type BuildingMapper struct{}

func (BuildingMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	b, ok := doc.(*models.Building)
	if !ok {
		return nil, fmt.Errorf("building mapper: unexpected document type %T", doc)
	}
	return crm.Record{
		"Name":            b.Name,
		"Address__c":      b.Address,
		"City__c":         b.City,
		"State__c":        b.State,
		"Postal_Code__c":  b.PostalCode,
		"Square_Feet__c":  b.SquareFeet,
		"Year_Built__c":   b.YearBuilt,
		"Organization__r": crm.Record{"Org_ID__c": org.ID},
	}, nil
}

// ProjectMapper projects a measure package into its CRM record
type ProjectMapper struct{}

func (ProjectMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	p, ok := doc.(*models.Project)
	if !ok {
		return nil, fmt.Errorf("project mapper: unexpected document type %T", doc)
	}
	record := crm.Record{
		"Name":            p.Name,
		"Status__c":       p.Status,
		"Organization__r": crm.Record{"Org_ID__c": org.ID},
	}
	if p.Description != nil {
		record["Description__c"] = *p.Description
	}
	return record, nil
}

// MeasureMapper projects an individual measure into its CRM record,
// referencing its owning project and building
type MeasureMapper struct{}

func (MeasureMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	m, ok := doc.(*models.Measure)
	if !ok {
		return nil, fmt.Errorf("measure mapper: unexpected document type %T", doc)
	}
	return crm.Record{
		"Name":                 m.Name,
		"Category__c":          m.Category,
		"Estimated_Cost__c":    m.EstimatedCost,
		"Estimated_Savings__c": m.EstimatedSavings,
		"Project__r":           crm.Record{"Project_ID__c": m.ProjectID},
		"Building__r":          crm.Record{"Building_ID__c": m.BuildingID},
	}, nil
}

// EquipmentMapper projects an equipment instance into its CRM record
type EquipmentMapper struct{}

func (EquipmentMapper) Map(ctx context.Context, doc models.Syncable, org *models.Organization) (crm.Record, error) {
	e, ok := doc.(*models.Equipment)
	if !ok {
		return nil, fmt.Errorf("equipment mapper: unexpected document type %T", doc)
	}
	record := crm.Record{
		"Name":        e.Name,
		"Category__c": e.Category,
		"Quantity__c": e.Quantity,
		"Building__r": crm.Record{"Building_ID__c": e.BuildingID},
	}
	if e.Manufacturer != nil {
		record["Manufacturer__c"] = *e.Manufacturer
	}
	if e.ModelNumber != nil {
		record["Model_Number__c"] = *e.ModelNumber
	}
	return record, nil
}
