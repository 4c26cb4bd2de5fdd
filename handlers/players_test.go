// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/testutil"
)

func TestRegisterPlayer(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewPlayerHandler(svc)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"valid registration", models.RegisterPlayerRequest{Email: "Dana@Example.com", DisplayName: "Dana"}, http.StatusCreated},
		{"duplicate email", models.RegisterPlayerRequest{Email: "dana@example.com", DisplayName: "Other Dana"}, http.StatusConflict},
		{"invalid email", models.RegisterPlayerRequest{Email: "dana", DisplayName: "Dana"}, http.StatusBadRequest},
		{"missing display name", models.RegisterPlayerRequest{Email: "eve@example.com"}, http.StatusBadRequest},
		{"invalid JSON", "not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/players", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.RegisterPlayerResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Player.ID == "" {
					t.Error("Expected non-empty player id")
				}
				if resp.Player.Email != "dana@example.com" {
					t.Errorf("Expected normalized email, got %q", resp.Player.Email)
				}
			}
		})
	}
}

func TestLookupPlayer(t *testing.T) {
	svc, db := setupService(t)
	handler := NewPlayerHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")

	tests := []struct {
		name           string
		email          string
		expectedStatus int
	}{
		{"registered email", bob.Email, http.StatusOK},
		{"unknown email", "nobody@example.com", http.StatusNotFound},
		{"missing email", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asPlayer(httptest.NewRequest("GET", "/players/lookup?email="+url.QueryEscape(tt.email), nil), alice.ID)
			w := httptest.NewRecorder()

			handler.Lookup(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var p models.Player
				testutil.AssertJSON(t, w, &p)
				if p.ID != bob.ID {
					t.Errorf("Expected player %s, got %s", bob.ID, p.ID)
				}
			}
		})
	}
}
