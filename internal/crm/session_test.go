package crm

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testKeyPEM(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return string(pem.EncodeToMemory(block)), key
}

func TestNewSessionBroker_InvalidKey(t *testing.T) {
	_, err := NewSessionBroker("client-id", "not a pem key", "", time.Second)
	if err == nil {
		t.Fatal("expected error for invalid private key")
	}
}

func TestGetConnection_Success(t *testing.T) {
	pemKey, key := testKeyPEM(t)

	var gotGrantType, gotAssertion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/oauth2/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotGrantType = r.PostFormValue("grant_type")
		gotAssertion = r.PostFormValue("assertion")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-123","instance_url":"https://instance.example.com"}`)
	}))
	defer server.Close()

	broker, err := NewSessionBroker("client-id", pemKey, "", time.Second)
	if err != nil {
		t.Fatalf("failed to create broker: %v", err)
	}

	session, err := broker.GetConnection(context.Background(), "alice@crm", "https://audience.example.com", server.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if session.AccessToken != "token-123" {
		t.Errorf("expected access token token-123, got %s", session.AccessToken)
	}
	if session.InstanceURL != "https://instance.example.com" {
		t.Errorf("expected instance url, got %s", session.InstanceURL)
	}

	if gotGrantType != jwtBearerGrant {
		t.Errorf("expected jwt-bearer grant, got %s", gotGrantType)
	}

	// Verify the assertion claims
	token, err := jwt.ParseWithClaims(gotAssertion, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithAudience("https://audience.example.com"))
	if err != nil {
		t.Fatalf("failed to parse assertion: %v", err)
	}
	claims := token.Claims.(*jwt.RegisteredClaims)
	if claims.Subject != "alice@crm" {
		t.Errorf("expected subject alice@crm, got %s", claims.Subject)
	}
	if claims.Issuer != "client-id" {
		t.Errorf("expected issuer client-id, got %s", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > assertionLifetime {
		t.Errorf("expected a short expiry, got %v", claims.ExpiresAt)
	}
}

func TestGetConnection_AuthFailure(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":"invalid_grant"}`)
	}))
	defer server.Close()

	broker, err := NewSessionBroker("client-id", pemKey, "", time.Second)
	if err != nil {
		t.Fatalf("failed to create broker: %v", err)
	}

	_, err = broker.GetConnection(context.Background(), "alice@crm", "", server.URL)
	if err == nil {
		t.Fatal("expected error for rejected grant")
	}
}

func TestGetConnection_MissingFields(t *testing.T) {
	pemKey, _ := testKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "token-only"})
	}))
	defer server.Close()

	broker, err := NewSessionBroker("client-id", pemKey, "", time.Second)
	if err != nil {
		t.Fatalf("failed to create broker: %v", err)
	}

	_, err = broker.GetConnection(context.Background(), "alice@crm", "", server.URL)
	if err == nil {
		t.Fatal("expected error when instance_url is missing")
	}
}
