package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const apiVersion = "v58.0"

// Record is an externally-mapped document ready to be upserted
type Record map[string]interface{}

// UpsertResult correlates one record of an upsert page with the CRM
// object id it was written as. ErrorMessage is set when the CRM
// rejected that record; such entries carry no external id.
type UpsertResult struct {
	InternalID   string
	ExternalID   string
	ErrorMessage string
}

// RecordUpserter posts pages of mapped records to the CRM composite
// upsert endpoint for one object type. Records are keyed by the
// external-id field carrying the internal document id, so repeated
// upserts of the same document hit the same CRM object.
type RecordUpserter struct {
	objectType      string
	externalIDField string
	requestTimeout  time.Duration
}

func NewRecordUpserter(objectType, externalIDField string, requestTimeout time.Duration) *RecordUpserter {
	return &RecordUpserter{
		objectType:      objectType,
		externalIDField: externalIDField,
		requestTimeout:  requestTimeout,
	}
}

// UpsertPage upserts one page of records. records and internalIDs are
// positional pairs; the returned results are zipped back positionally
// from the CRM response. A transport or API-level failure fails the
// whole page; per-record rejections are reported in the results.
func (u *RecordUpserter) UpsertPage(ctx context.Context, session *Session, records []Record, internalIDs []string) ([]UpsertResult, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if len(records) != len(internalIDs) {
		return nil, fmt.Errorf("records/internalIDs length mismatch: %d != %d", len(records), len(internalIDs))
	}

	payload := make([]Record, len(records))
	for i, rec := range records {
		annotated := make(Record, len(rec)+2)
		for k, v := range rec {
			annotated[k] = v
		}
		annotated["attributes"] = map[string]string{"type": u.objectType}
		annotated[u.externalIDField] = internalIDs[i]
		payload[i] = annotated
	}

	reqBody := map[string]interface{}{
		"allOrNone": false,
		"records":   payload,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upsert request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/services/data/%s/composite/sobjects/%s/%s",
		strings.TrimSuffix(session.InstanceURL, "/"), apiVersion, u.objectType, u.externalIDField)

	req, err := http.NewRequestWithContext(ctx, "PATCH", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := session.HTTPClient(ctx, u.requestTimeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("upsert request failed for %s: %w", u.objectType, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upsert response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upsert returned status %d for %s: %s", resp.StatusCode, u.objectType, string(body))
	}

	var apiResults []struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
		Errors  []struct {
			StatusCode string `json:"statusCode"`
			Message    string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &apiResults); err != nil {
		return nil, fmt.Errorf("failed to parse upsert response: %w", err)
	}
	if len(apiResults) != len(records) {
		return nil, fmt.Errorf("upsert response length mismatch for %s: sent %d, got %d", u.objectType, len(records), len(apiResults))
	}

	results := make([]UpsertResult, len(apiResults))
	for i, r := range apiResults {
		result := UpsertResult{InternalID: internalIDs[i]}
		if r.Success {
			result.ExternalID = r.ID
		} else {
			messages := make([]string, 0, len(r.Errors))
			for _, e := range r.Errors {
				messages = append(messages, fmt.Sprintf("%s: %s", e.StatusCode, e.Message))
			}
			result.ErrorMessage = strings.Join(messages, "; ")
			if result.ErrorMessage == "" {
				result.ErrorMessage = "upsert failed without error detail"
			}
		}
		results[i] = result
	}
	return results, nil
}
