package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Authorization holds the non-default authentication endpoints recorded
// for one connected CRM account. Absent fields fall back to the default
// audience (and the token endpoint falls back to the audience).
type Authorization struct {
	Principal     string `json:"principal"`
	Audience      string `json:"audience"`
	TokenEndpoint string `json:"token_endpoint"`
}

// AuthorizationList is the JSONB-backed set of per-account
// authorization records on an organization, keyed uniquely by principal.
type AuthorizationList []Authorization

// Value implements driver.Valuer for AuthorizationList
func (l AuthorizationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for AuthorizationList
func (l *AuthorizationList) Scan(value interface{}) error {
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

// Find returns the authorization recorded for principal, if any
func (l AuthorizationList) Find(principal string) (Authorization, bool) {
	for _, a := range l {
		if a.Principal == principal {
			return a, true
		}
	}
	return Authorization{}, false
}

// Upsert returns the list with the record for a.Principal replaced by a
func (l AuthorizationList) Upsert(a Authorization) AuthorizationList {
	out := make(AuthorizationList, 0, len(l)+1)
	for _, existing := range l {
		if existing.Principal != a.Principal {
			out = append(out, existing)
		}
	}
	return append(out, a)
}

// Remove returns the list without the record for principal
func (l AuthorizationList) Remove(principal string) AuthorizationList {
	out := make(AuthorizationList, 0, len(l))
	for _, a := range l {
		if a.Principal != principal {
			out = append(out, a)
		}
	}
	return out
}
