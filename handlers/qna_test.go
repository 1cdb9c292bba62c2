package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Aditya060/Quiz-Stats/db"
	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/models"
	"github.com/Aditya060/Quiz-Stats/testutil"
)

func TestQnASubmit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedUser   string
		expectedText   string
	}{
		{
			name:           "valid submission",
			requestBody:    models.QnASubmitRequest{Text: "How does the GC work?", User: "gopher"},
			expectedStatus: http.StatusOK,
			expectedUser:   "gopher",
			expectedText:   "How does the GC work?",
		},
		{
			name:           "whitespace trimmed",
			requestBody:    models.QnASubmitRequest{Text: "  padded question  ", User: "  eve "},
			expectedStatus: http.StatusOK,
			expectedUser:   "eve",
			expectedText:   "padded question",
		},
		{
			name:           "blank user defaults to Anonymous",
			requestBody:    models.QnASubmitRequest{Text: "Who am I?"},
			expectedStatus: http.StatusOK,
			expectedUser:   "Anonymous",
			expectedText:   "Who am I?",
		},
		{
			name:           "empty text",
			requestBody:    models.QnASubmitRequest{User: "bob"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "whitespace-only text",
			requestBody:    models.QnASubmitRequest{Text: "   \t  "},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &testutil.EventRecorder{}
			handler := NewQnAHandler(conn, cfg, recorder)

			req := testutil.MakeRequest("POST", "/api/qna/submit", tt.requestBody, nil)
			w := httptest.NewRecorder()
			handler.Submit(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				if got := recorder.Count(live.EventQnASubmitted); got != 0 {
					t.Errorf("Expected no qnaSubmitted events, got %d", got)
				}
				return
			}

			var resp models.QnASubmitResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ID == 0 {
				t.Error("Expected non-zero submission id")
			}

			var user, text string
			err := conn.QueryRow(`
				SELECT "user", text FROM qna_submissions WHERE id = $1
			`, resp.ID).Scan(&user, &text)
			if err != nil {
				t.Fatalf("Failed to read submission back: %v", err)
			}
			if user != tt.expectedUser {
				t.Errorf("Expected user %q, got %q", tt.expectedUser, user)
			}
			if text != tt.expectedText {
				t.Errorf("Expected text %q, got %q", tt.expectedText, text)
			}
			if got := recorder.Count(live.EventQnASubmitted); got != 1 {
				t.Errorf("Expected 1 qnaSubmitted event, got %d", got)
			}
		})
	}
}

func TestQnAList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	handler := NewQnAHandler(conn, cfg, recorder)

	// More submissions than the window; only the newest 200 come back.
	total := 205
	var lastID int64
	for i := 0; i < total; i++ {
		lastID = testutil.InsertTestQnA(t, conn, "user", "question "+strconv.Itoa(i))
	}

	req := testutil.MakeRequest("GET", "/api/qna/list", nil, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QnAListResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.QnA) != 200 {
		t.Fatalf("Expected 200 items, got %d", len(resp.QnA))
	}
	if resp.QnA[0].ID != lastID {
		t.Errorf("Expected newest item first (id %d), got %d", lastID, resp.QnA[0].ID)
	}
	for i := 1; i < len(resp.QnA); i++ {
		if resp.QnA[i].ID >= resp.QnA[i-1].ID {
			t.Fatalf("Items not in newest-first order at index %d", i)
		}
	}
	if resp.HighlightID != 0 {
		t.Errorf("Expected no highlight, got %d", resp.HighlightID)
	}
}

func TestQnAHighlight(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	handler := NewQnAHandler(conn, cfg, recorder)

	id := testutil.InsertTestQnA(t, conn, "user", "highlight me")

	req := testutil.MakeRequest("POST", "/api/qna/highlight", models.QnAIDRequest{ID: id}, nil)
	w := httptest.NewRecorder()
	handler.Highlight(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	highlight, err := db.GetMetaInt(conn, db.MetaQnAHighlight, 0)
	if err != nil {
		t.Fatalf("Failed to read highlight meta: %v", err)
	}
	if int64(highlight) != id {
		t.Errorf("Expected highlight %d, got %d", id, highlight)
	}

	events := recorder.Events()
	if len(events) != 1 || events[0].Event != live.EventQnAHighlighted || events[0].ID != id {
		t.Errorf("Expected one qnaHighlighted{%d} event, got %+v", id, events)
	}

	// Unhighlight clears the pointer and signals id 0.
	req = testutil.MakeRequest("POST", "/api/qna/unhighlight", nil, nil)
	w = httptest.NewRecorder()
	handler.Unhighlight(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	highlight, err = db.GetMetaInt(conn, db.MetaQnAHighlight, 0)
	if err != nil {
		t.Fatalf("Failed to read highlight meta: %v", err)
	}
	if highlight != 0 {
		t.Errorf("Expected highlight cleared, got %d", highlight)
	}

	events = recorder.Events()
	if len(events) != 2 || events[1].Event != live.EventQnAHighlighted || events[1].ID != 0 {
		t.Errorf("Expected second qnaHighlighted event with id 0, got %+v", events)
	}
}

func TestQnAReject(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	handler := NewQnAHandler(conn, cfg, recorder)

	id := testutil.InsertTestQnA(t, conn, "user", "reject me")
	keepID := testutil.InsertTestQnA(t, conn, "user", "keep me")

	// Highlight the soon-to-be-rejected item; rejection must clear it.
	if err := db.SetMeta(conn, db.MetaQnAHighlight, strconv.FormatInt(id, 10)); err != nil {
		t.Fatalf("Failed to set highlight: %v", err)
	}

	reject := func() {
		req := testutil.MakeRequest("POST", "/api/qna/reject", models.QnAIDRequest{ID: id}, nil)
		w := httptest.NewRecorder()
		handler.Reject(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	reject()

	// The item is gone from the list, forever.
	req := testutil.MakeRequest("GET", "/api/qna/list", nil, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp models.QnAListResponse
	testutil.AssertJSON(t, w, &resp)
	for _, item := range resp.QnA {
		if item.ID == id {
			t.Errorf("Rejected item %d still listed", id)
		}
	}
	if len(resp.QnA) != 1 || resp.QnA[0].ID != keepID {
		t.Errorf("Expected only item %d to remain, got %+v", keepID, resp.QnA)
	}
	if resp.HighlightID != 0 {
		t.Errorf("Expected highlight cleared after rejection, got %d", resp.HighlightID)
	}

	if got := recorder.Count(live.EventQnARejected); got != 1 {
		t.Errorf("Expected 1 qnaRejected event, got %d", got)
	}

	// Re-rejecting is a silent no-op.
	reject()
	if got := recorder.Count(live.EventQnARejected); got != 1 {
		t.Errorf("Expected no event on re-reject, got %d total", got)
	}
}

func TestQnAModerationGate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AdminKey = "sekrit"
	recorder := &testutil.EventRecorder{}
	handler := NewQnAHandler(conn, cfg, recorder)

	id := testutil.InsertTestQnA(t, conn, "user", "moderate me")

	// Moderation endpoints refuse a missing or wrong key.
	tests := []struct {
		name    string
		path    string
		fn      http.HandlerFunc
		body    interface{}
		headers map[string]string
	}{
		{"reject without key", "/api/qna/reject", handler.Reject, models.QnAIDRequest{ID: id}, nil},
		{"reject with wrong key", "/api/qna/reject", handler.Reject, models.QnAIDRequest{ID: id}, map[string]string{"X-Admin-Key": "nope"}},
		{"highlight without key", "/api/qna/highlight", handler.Highlight, models.QnAIDRequest{ID: id}, nil},
		{"unhighlight without key", "/api/qna/unhighlight", handler.Unhighlight, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", tt.path, tt.body, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			tt.fn(w, req)
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}

	// The unauthorized reject attempts deleted nothing.
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM qna_submissions WHERE id = $1`, id).Scan(&count); err != nil {
		t.Fatalf("Failed to count submissions: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected item to survive unauthorized rejection, got %d rows", count)
	}
	if len(recorder.Events()) != 0 {
		t.Errorf("Expected no events from rejected requests, got %+v", recorder.Events())
	}

	// Submission and listing stay open to the audience.
	req := testutil.MakeRequest("POST", "/api/qna/submit", models.QnASubmitRequest{Text: "no key needed"}, nil)
	w := httptest.NewRecorder()
	handler.Submit(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	req = testutil.MakeRequest("GET", "/api/qna/list", nil, nil)
	w = httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// The right key gets through.
	req = testutil.MakeRequest("POST", "/api/qna/reject", models.QnAIDRequest{ID: id}, map[string]string{"X-Admin-Key": "sekrit"})
	w = httptest.NewRecorder()
	handler.Reject(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if err := conn.QueryRow(`SELECT COUNT(*) FROM qna_submissions WHERE id = $1`, id).Scan(&count); err != nil {
		t.Fatalf("Failed to count submissions: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected authorized rejection to delete the item, got %d rows", count)
	}
}
