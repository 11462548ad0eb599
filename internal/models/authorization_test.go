package models

import "testing"

func TestAuthorizationList_UpsertReplacesByPrincipal(t *testing.T) {
	list := AuthorizationList{
		{Principal: "alice@crm", Audience: "https://login.example.com"},
	}

	list = list.Upsert(Authorization{
		Principal:     "alice@crm",
		Audience:      "https://test.example.com",
		TokenEndpoint: "https://test.example.com",
	})

	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	if list[0].Audience != "https://test.example.com" {
		t.Errorf("expected replaced audience, got %s", list[0].Audience)
	}
}

func TestAuthorizationList_Remove(t *testing.T) {
	list := AuthorizationList{
		{Principal: "alice@crm"},
		{Principal: "bob@crm"},
	}

	list = list.Remove("alice@crm")

	if len(list) != 1 || list[0].Principal != "bob@crm" {
		t.Errorf("unexpected list after remove: %v", list)
	}

	if _, ok := list.Find("alice@crm"); ok {
		t.Error("expected alice@crm to be removed")
	}
}

func TestStringList_ContainsRemove(t *testing.T) {
	list := StringList{"alice@crm", "bob@crm"}

	if !list.Contains("alice@crm") {
		t.Error("expected list to contain alice@crm")
	}
	if list.Contains("carol@crm") {
		t.Error("expected list not to contain carol@crm")
	}

	removed := list.Remove("alice@crm")
	if len(removed) != 1 || removed[0] != "bob@crm" {
		t.Errorf("unexpected list after remove: %v", removed)
	}
}
