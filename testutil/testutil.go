// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/versus/auth"
	"github.com/danielhkuo/versus/cliparse"
	"github.com/danielhkuo/versus/db"
	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// TestTokenSecret signs the bearer tokens used in tests
const TestTokenSecret = "test-token-secret"

// SetupTestDB opens a fresh in-memory sqlite database with the full schema.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		TokenSecret:  TestTokenSecret,
		CreationMode: models.CreationModeTransaction,
		WriteTimeout: 5 * time.Second,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// CreateTestPlayer registers a player directly in the store and returns it
func CreateTestPlayer(t *testing.T, conn *sql.DB, displayName string) models.Player {
	t.Helper()

	p := models.Player{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.ReplaceAll(displayName, " ", ".")) + "-" + uuid.NewString()[:8] + "@example.com",
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.New(conn).InsertPlayer(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}

	return p
}

// AuthHeader returns an Authorization header for the player
func AuthHeader(t *testing.T, playerID string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(playerID, TestTokenSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// CountRows returns the number of rows in a table, optionally filtered by a
// WHERE clause with $1-style arguments
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
