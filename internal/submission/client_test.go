package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func samplePayload() Payload {
	return Payload{
		Meta: Meta{Company: "Spirit Mart", Name: "Jordan", Email: "jordan@example.com", State: "CA"},
		Items: []Item{
			{State: "CA", School: "Lincoln HS", DesignID: "d1", DesignName: "Eagles Tee", Style: "G500", Wholesale: "6.25", MSRP: "12.00", Qty: 50},
		},
	}
}

func TestSubmitAccepted(t *testing.T) {
	var gotContentType string
	var gotBody Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(Result{OK: true, Rows: 1})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{EndpointURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	result, err := client.Submit(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !result.OK || result.Rows != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotContentType != "text/plain;charset=utf-8" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if len(gotBody.Items) != 1 || gotBody.Items[0].DesignID != "d1" {
		t.Fatalf("unexpected delivered payload: %+v", gotBody)
	}
}

func TestSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{OK: false, Error: "duplicate order"})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{EndpointURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	result, err := client.Submit(context.Background(), samplePayload())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if result.Error != "duplicate order" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSubmitErrorStatusOverridesOKBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(Result{OK: true, Rows: 3})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{EndpointURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	result, err := client.Submit(context.Background(), samplePayload())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if result.OK {
		t.Fatalf("expected zero result on error status, got %+v", result)
	}
}

func TestSubmitUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{EndpointURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.Submit(context.Background(), samplePayload()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSubmitTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(ClientConfig{EndpointURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.Submit(context.Background(), samplePayload()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}
