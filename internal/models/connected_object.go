package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ConnectedObject records the CRM object id a document was upserted as,
// for one connected account.
type ConnectedObject struct {
	Principal  string `json:"principal"`
	ExternalID string `json:"external_id"`
}

// ConnectedObjectList is the JSONB-backed set of CRM correlations on a
// syncable document. At most one entry exists per principal.
type ConnectedObjectList []ConnectedObject

// Value implements driver.Valuer for ConnectedObjectList
func (l ConnectedObjectList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for ConnectedObjectList
func (l *ConnectedObjectList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// Find returns the external id recorded for principal, if any
func (l ConnectedObjectList) Find(principal string) (string, bool) {
	for _, c := range l {
		if c.Principal == principal {
			return c.ExternalID, true
		}
	}
	return "", false
}

// Upsert returns the list with the entry for principal set to
// externalID, and whether the list changed. An existing entry with a
// different external id is replaced, never duplicated; entries for
// other principals are left untouched. Last write wins per principal.
func (l ConnectedObjectList) Upsert(principal, externalID string) (ConnectedObjectList, bool) {
	if existing, ok := l.Find(principal); ok && existing == externalID {
		return l, false
	}
	out := make(ConnectedObjectList, 0, len(l)+1)
	for _, c := range l {
		if c.Principal != principal {
			out = append(out, c)
		}
	}
	out = append(out, ConnectedObject{Principal: principal, ExternalID: externalID})
	return out, true
}

// Syncable is any document that can be mirrored into the CRM and carry
// per-account correlations.
type Syncable interface {
	GetID() string
	GetConnectedObjects() ConnectedObjectList
	SetConnectedObjects(ConnectedObjectList)
}
