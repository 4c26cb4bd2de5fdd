// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
	"github.com/danielhkuo/versus/testutil"
	"github.com/danielhkuo/versus/versus"
)

// setupService creates a service over a fresh in-memory database
func setupService(t *testing.T) (*versus.Service, *sql.DB) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	svc, err := versus.NewService(store.New(conn), versus.Options{
		CreationMode: models.CreationModeTransaction,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	return svc, conn
}

// asPlayer attaches an authenticated player to the request, as RequireAuth would
func asPlayer(req *http.Request, playerID string) *http.Request {
	return req.WithContext(middleware.WithPlayerID(req.Context(), playerID))
}

// createVersus creates a versus owned by creator with one objective per points value
func createVersus(t *testing.T, svc *versus.Service, creator models.Player, others []models.Player, points ...int) (models.Versus, []models.Objective) {
	t.Helper()

	d := versus.NewDraft(creator.ID).WithConfig(models.VersusConfig{Name: "Handler Versus", Type: "darts"})
	for _, p := range others {
		d = d.WithPlayer(models.PlayerInput{PlayerID: p.ID})
	}
	for _, p := range points {
		d = d.WithObjective(models.ObjectiveInput{Title: "Objective", Points: p})
	}

	v, err := svc.Submit(context.Background(), d)
	if err != nil {
		t.Fatalf("Failed to create versus: %v", err)
	}

	detail, err := svc.GetVersus(context.Background(), v.ID, creator.ID)
	if err != nil {
		t.Fatalf("Failed to load versus: %v", err)
	}

	return v, detail.Objectives
}

func TestCreateVersus(t *testing.T) {
	svc, db := setupService(t)
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")

	tests := []struct {
		name           string
		requestBody    interface{}
		playerID       string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CreateVersusResponse)
	}{
		{
			name: "valid versus creation",
			requestBody: models.CreateVersusRequest{
				VersusConfig: models.VersusConfig{Name: "Office Darts", Type: "darts"},
				Players:      []models.PlayerInput{{Email: bob.Email}},
				Objectives:   []models.ObjectiveInput{{Title: "Bullseye", Points: 50}, {Title: "Miss", Points: -5}},
			},
			playerID:       alice.ID,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CreateVersusResponse) {
				if resp.VersusID == "" {
					t.Error("Expected non-empty versus_id")
				}
				if !strings.HasPrefix(resp.Slug, "office-darts-") {
					t.Errorf("Unexpected slug %q", resp.Slug)
				}

				// The creator is added even when the body leaves them out
				var isCommissioner bool
				err := db.QueryRow("SELECT is_commissioner FROM versus_player WHERE versus_id = $1 AND player_id = $2",
					resp.VersusID, alice.ID).Scan(&isCommissioner)
				if err != nil {
					t.Fatalf("Failed to query creator membership: %v", err)
				}
				if !isCommissioner {
					t.Error("Expected creator to be a commissioner")
				}

				if n := testutil.CountRows(t, db, "objective", "versus_id = $1", resp.VersusID); n != 2 {
					t.Errorf("Expected 2 objectives, got %d", n)
				}
			},
		},
		{
			name: "same player by email and id",
			requestBody: models.CreateVersusRequest{
				VersusConfig: models.VersusConfig{Name: "Dupes", Type: "darts"},
				Players:      []models.PlayerInput{{Email: bob.Email}, {PlayerID: bob.ID}},
				Objectives:   []models.ObjectiveInput{{Title: "Bullseye", Points: 50}},
			},
			playerID:       alice.ID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown email",
			requestBody: models.CreateVersusRequest{
				VersusConfig: models.VersusConfig{Name: "Ghosts", Type: "darts"},
				Players:      []models.PlayerInput{{Email: "nobody@example.com"}},
				Objectives:   []models.ObjectiveInput{{Title: "Bullseye", Points: 50}},
			},
			playerID:       alice.ID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing objectives",
			requestBody: models.CreateVersusRequest{
				VersusConfig: models.VersusConfig{Name: "Empty", Type: "darts"},
			},
			playerID:       alice.ID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			playerID:       alice.ID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "no authenticated player",
			requestBody: models.CreateVersusRequest{
				VersusConfig: models.VersusConfig{Name: "Anon", Type: "darts"},
				Objectives:   []models.ObjectiveInput{{Title: "Bullseye", Points: 50}},
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if str, ok := tt.requestBody.(string); ok {
				req = httptest.NewRequest("POST", "/versus", strings.NewReader(str))
			} else {
				req = testutil.MakeRequest("POST", "/versus", tt.requestBody, nil)
			}
			if tt.playerID != "" {
				req = asPlayer(req, tt.playerID)
			}
			w := httptest.NewRecorder()

			before := testutil.CountRows(t, db, "versus", "")
			handler.CreateVersus(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				if after := testutil.CountRows(t, db, "versus", ""); after != before {
					t.Errorf("Expected no versus rows written, count went from %d to %d", before, after)
				}
				return
			}
			if tt.checkResponse != nil {
				var resp models.CreateVersusResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

// failingObjectives fails the objectives insert of every creation
type failingObjectives struct {
	*store.Store
}

func (failingObjectives) InsertObjectives(context.Context, []models.Objective) error {
	return errors.New("disk full")
}

func TestCreateVersusStorageFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, err := versus.NewService(failingObjectives{store.New(db)}, versus.Options{
		CreationMode: models.CreationModeCompensating,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")
	carol := testutil.CreateTestPlayer(t, db, "Carol")

	body := models.CreateVersusRequest{
		VersusConfig: models.VersusConfig{Name: "Doomed", Type: "golf"},
		Players:      []models.PlayerInput{{PlayerID: bob.ID}, {PlayerID: carol.ID}},
		Objectives:   []models.ObjectiveInput{{Title: "Par", Points: 1}, {Title: "Birdie", Points: 3}},
	}
	req := asPlayer(testutil.MakeRequest("POST", "/versus", body, nil), alice.ID)
	w := httptest.NewRecorder()

	handler.CreateVersus(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "failed to create, no Versus was created" {
		t.Errorf("Unexpected error message %q", resp.Message)
	}

	for _, table := range []string{"versus", "versus_player", "objective"} {
		if n := testutil.CountRows(t, db, table, ""); n != 0 {
			t.Errorf("Expected no rows in %s, got %d", table, n)
		}
	}
}

func TestGetVersus(t *testing.T) {
	svc, db := setupService(t)
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")
	mallory := testutil.CreateTestPlayer(t, db, "Mallory")
	v, _ := createVersus(t, svc, alice, []models.Player{bob}, 10, 5)

	tests := []struct {
		name           string
		id             string
		playerID       string
		expectedStatus int
	}{
		{"member", v.ID, bob.ID, http.StatusOK},
		{"non-member", v.ID, mallory.ID, http.StatusForbidden},
		{"missing versus", "missing", alice.ID, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asPlayer(httptest.NewRequest("GET", "/versus/"+tt.id, nil), tt.playerID)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetVersus(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var detail models.VersusDetail
				testutil.AssertJSON(t, w, &detail)
				if len(detail.Members) != 2 {
					t.Errorf("Expected 2 members, got %d", len(detail.Members))
				}
				if len(detail.Objectives) != 2 {
					t.Errorf("Expected 2 objectives, got %d", len(detail.Objectives))
				}
			}
		})
	}

	t.Run("by slug", func(t *testing.T) {
		req := asPlayer(httptest.NewRequest("GET", "/slugs/"+v.Slug, nil), alice.ID)
		req.SetPathValue("slug", v.Slug)
		w := httptest.NewRecorder()

		handler.GetVersusBySlug(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("list", func(t *testing.T) {
		req := asPlayer(httptest.NewRequest("GET", "/versus", nil), bob.ID)
		w := httptest.NewRecorder()

		handler.ListVersus(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ListVersusResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Versus) != 1 || resp.Versus[0].Versus.ID != v.ID {
			t.Errorf("Expected bob's single versus, got %+v", resp.Versus)
		}
	})
}

func TestUpdateObjectives(t *testing.T) {
	svc, db := setupService(t)
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")
	v, objs := createVersus(t, svc, alice, []models.Player{bob}, 10)
	_, foreign := createVersus(t, svc, alice, nil, 1)

	edit := []models.ObjectiveInput{{ID: objs[0].ID, Title: objs[0].Title, Points: 15}}

	tests := []struct {
		name           string
		playerID       string
		objectives     []models.ObjectiveInput
		expectedStatus int
	}{
		{"non-commissioner", bob.ID, edit, http.StatusForbidden},
		{"objective from another versus", alice.ID, []models.ObjectiveInput{{ID: foreign[0].ID, Title: "x", Points: 1}}, http.StatusBadRequest},
		{"points out of range", alice.ID, []models.ObjectiveInput{{Title: "x", Points: 1000000}}, http.StatusBadRequest},
		{"commissioner edit", alice.ID, edit, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := models.UpdateObjectivesRequest{Objectives: tt.objectives}
			req := asPlayer(testutil.MakeRequest("PUT", "/versus/"+v.ID+"/objectives", body, nil), tt.playerID)
			req.SetPathValue("id", v.ID)
			w := httptest.NewRecorder()

			handler.UpdateObjectives(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	var points int
	if err := db.QueryRow("SELECT points FROM objective WHERE id = $1", objs[0].ID).Scan(&points); err != nil {
		t.Fatalf("Failed to query objective: %v", err)
	}
	if points != 15 {
		t.Errorf("Expected points 15, got %d", points)
	}
}

func TestUpdatePlayers(t *testing.T) {
	svc, db := setupService(t)
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")
	carol := testutil.CreateTestPlayer(t, db, "Carol")
	v, _ := createVersus(t, svc, alice, []models.Player{bob}, 10)

	send := func(players []models.PlayerInput) *httptest.ResponseRecorder {
		body := models.UpdatePlayersRequest{Players: players}
		req := asPlayer(testutil.MakeRequest("PUT", "/versus/"+v.ID+"/players", body, nil), alice.ID)
		req.SetPathValue("id", v.ID)
		w := httptest.NewRecorder()
		handler.UpdatePlayers(w, req)
		return w
	}

	t.Run("last commissioner", func(t *testing.T) {
		w := send([]models.PlayerInput{{PlayerID: alice.ID}, {PlayerID: bob.ID}})
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("swap bob for carol", func(t *testing.T) {
		w := send([]models.PlayerInput{{PlayerID: alice.ID, IsCommissioner: true}, {Email: carol.Email}})
		testutil.AssertStatus(t, w, http.StatusOK)

		var detail models.VersusDetail
		testutil.AssertJSON(t, w, &detail)
		if len(detail.Members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(detail.Members))
		}
		for _, m := range detail.Members {
			if m.PlayerID == bob.ID {
				t.Error("Expected bob to be removed")
			}
		}
	})

	t.Run("commissioner removes self", func(t *testing.T) {
		w := send([]models.PlayerInput{{PlayerID: carol.ID, IsCommissioner: true}})
		testutil.AssertStatus(t, w, http.StatusNoContent)
	})
}

func TestUpdateSettingsAndDelete(t *testing.T) {
	svc, db := setupService(t)
	handler := NewVersusHandler(svc)

	alice := testutil.CreateTestPlayer(t, db, "Alice")
	bob := testutil.CreateTestPlayer(t, db, "Bob")
	v, _ := createVersus(t, svc, alice, []models.Player{bob}, 10)

	body := models.VersusConfig{Name: "Lowest Wins", Type: "golf", ReverseRanking: true}
	req := asPlayer(testutil.MakeRequest("PATCH", "/versus/"+v.ID, body, nil), alice.ID)
	req.SetPathValue("id", v.ID)
	w := httptest.NewRecorder()
	handler.UpdateSettings(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var updated models.Versus
	testutil.AssertJSON(t, w, &updated)
	if !updated.ReverseRanking || updated.Name != "Lowest Wins" {
		t.Errorf("Settings not applied: %+v", updated)
	}

	del := func(playerID string) *httptest.ResponseRecorder {
		req := asPlayer(httptest.NewRequest("DELETE", "/versus/"+v.ID, nil), playerID)
		req.SetPathValue("id", v.ID)
		w := httptest.NewRecorder()
		handler.DeleteVersus(w, req)
		return w
	}

	testutil.AssertStatus(t, del(bob.ID), http.StatusForbidden)
	testutil.AssertStatus(t, del(alice.ID), http.StatusNoContent)
	testutil.AssertStatus(t, del(alice.ID), http.StatusNotFound)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		message        string
	}{
		{"validation", &versus.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest, "name: is required"},
		{"authorization", &versus.AuthorizationError{Message: "nope"}, http.StatusForbidden, "nope"},
		{"not found", versus.ErrNotFound, http.StatusNotFound, "Not found"},
		{"conflict", &versus.ConflictError{Message: "taken"}, http.StatusConflict, "taken"},
		{"partial write", &versus.PartialWriteError{Step: "objectives", Err: errors.New("x")}, http.StatusInternalServerError, "failed to create, no Versus was created"},
		{"rollback failure", &versus.RollbackFailure{VersusID: "v", Step: "objectives"}, http.StatusInternalServerError, "failed to create versus"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, "Request canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "Request canceled"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()

			writeServiceError(w, req, tt.err, "fallback")

			testutil.AssertStatus(t, w, tt.expectedStatus)
			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error: %v", err)
			}
			if resp.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, resp.Message)
			}
		})
	}
}
