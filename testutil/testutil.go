// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/db"
	"github.com/Aditya060/Quiz-Stats/live"
)

// SetupTestDB creates a fresh sqlite database in a per-test temp dir with
// the full schema. The file (not :memory:) matters: concurrency tests
// hammer it from multiple connections of the pool.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite",
		"file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8080,
		DatabaseType: db.TypeSQLite,
	}
}

// CreateTestQuestion inserts a question with the given options and
// returns the question id and option ids in order.
func CreateTestQuestion(t *testing.T, conn *sql.DB, text string, options ...string) (int64, []int64) {
	t.Helper()

	var questionID int64
	err := conn.QueryRow(`
		INSERT INTO questions (text) VALUES ($1) RETURNING id
	`, text).Scan(&questionID)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	optionIDs := make([]int64, len(options))
	for i, label := range options {
		err := conn.QueryRow(`
			INSERT INTO options (question_id, text) VALUES ($1, $2) RETURNING id
		`, questionID, label).Scan(&optionIDs[i])
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return questionID, optionIDs
}

// InsertTestVote records a vote directly in the store.
func InsertTestVote(t *testing.T, conn *sql.DB, questionID, optionID int64, deviceID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO responses (question_id, option_id, device_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, questionID, optionID, deviceID, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}
}

// InsertTestQnA records a Q&A submission directly and returns its id.
func InsertTestQnA(t *testing.T, conn *sql.DB, user, text string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO qna_submissions ("user", text, created_at)
		VALUES ($1, $2, $3) RETURNING id
	`, user, text, time.Now()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert test qna submission: %v", err)
	}
	return id
}

// NewDeviceID generates a device identifier the way clients do.
func NewDeviceID() string {
	return "device-" + uuid.NewString()
}

// EventRecorder is a live.Notifier that records every event, so tests can
// assert on broadcast behavior without a running hub.
type EventRecorder struct {
	mu     sync.Mutex
	events []live.Event
}

func (r *EventRecorder) Notify(e live.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []live.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]live.Event(nil), r.events...)
}

// Count returns how many events with the given name were recorded.
func (r *EventRecorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Event == name {
			n++
		}
	}
	return n
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
