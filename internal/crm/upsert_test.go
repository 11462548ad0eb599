package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpsertPage_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody struct {
		AllOrNone bool     `json:"allOrNone"`
		Records   []Record `json:"records"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		fmt.Fprintf(w, `[{"id":"ext-1","success":true,"errors":[]},{"id":"ext-2","success":true,"errors":[]}]`)
	}))
	defer server.Close()

	session := &Session{InstanceURL: server.URL, AccessToken: "token-123"}
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	records := []Record{{"Name": "HQ"}, {"Name": "Annex"}}
	results, err := upserter.UpsertPage(context.Background(), session, records, []string{"bld-1", "bld-2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantPath := "/services/data/v58.0/composite/sobjects/Building__c/Building_ID__c"
	if gotPath != wantPath {
		t.Errorf("expected path %s, got %s", wantPath, gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.AllOrNone {
		t.Error("expected allOrNone=false")
	}
	if len(gotBody.Records) != 2 {
		t.Fatalf("expected 2 records sent, got %d", len(gotBody.Records))
	}
	if gotBody.Records[0]["Building_ID__c"] != "bld-1" {
		t.Errorf("expected external id field set to internal id, got %v", gotBody.Records[0]["Building_ID__c"])
	}
	attrs, ok := gotBody.Records[0]["attributes"].(map[string]interface{})
	if !ok || attrs["type"] != "Building__c" {
		t.Errorf("expected attributes type Building__c, got %v", gotBody.Records[0]["attributes"])
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].InternalID != "bld-1" || results[0].ExternalID != "ext-1" {
		t.Errorf("unexpected result zipping: %+v", results[0])
	}
	if results[1].InternalID != "bld-2" || results[1].ExternalID != "ext-2" {
		t.Errorf("unexpected result zipping: %+v", results[1])
	}
}

func TestUpsertPage_PerRecordErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":"ext-1","success":true,"errors":[]},{"id":"","success":false,"errors":[{"statusCode":"REQUIRED_FIELD_MISSING","message":"Name is required"}]}]`)
	}))
	defer server.Close()

	session := &Session{InstanceURL: server.URL, AccessToken: "token-123"}
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	results, err := upserter.UpsertPage(context.Background(), session, []Record{{}, {}}, []string{"bld-1", "bld-2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if results[0].ErrorMessage != "" || results[0].ExternalID != "ext-1" {
		t.Errorf("expected first record to succeed, got %+v", results[0])
	}
	if results[1].ErrorMessage == "" || results[1].ExternalID != "" {
		t.Errorf("expected second record rejected, got %+v", results[1])
	}
}

func TestUpsertPage_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer server.Close()

	session := &Session{InstanceURL: server.URL, AccessToken: "token-123"}
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	_, err := upserter.UpsertPage(context.Background(), session, []Record{{}}, []string{"bld-1"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestUpsertPage_EmptyPage(t *testing.T) {
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	results, err := upserter.UpsertPage(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("expected no error for empty page, got %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestUpsertPage_LengthMismatch(t *testing.T) {
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	_, err := upserter.UpsertPage(context.Background(), &Session{}, []Record{{}}, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestUpsertPage_ResponseLengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":"ext-1","success":true,"errors":[]}]`)
	}))
	defer server.Close()

	session := &Session{InstanceURL: server.URL, AccessToken: "token-123"}
	upserter := NewRecordUpserter("Building__c", "Building_ID__c", time.Second)

	_, err := upserter.UpsertPage(context.Background(), session, []Record{{}, {}}, []string{"bld-1", "bld-2"})
	if err == nil {
		t.Fatal("expected error for response length mismatch")
	}
}
