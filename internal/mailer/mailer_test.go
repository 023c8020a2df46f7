package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFunctionSenderPostsJSON(t *testing.T) {
	var got sendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewFunctionSender(srv.URL, time.Second)
	if err := sender.Send(context.Background(), "a@x.com", "123456"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Email != "a@x.com" || got.OTP != "123456" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestFunctionSenderGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewFunctionSender(srv.URL, time.Second)
	if err := sender.Send(context.Background(), "a@x.com", "123456"); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}
