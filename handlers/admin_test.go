package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/models"
	"github.com/Aditya060/Quiz-Stats/state"
	"github.com/Aditya060/Quiz-Stats/testutil"
)

func TestAdminLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	machine := state.NewMachine(conn, recorder)
	admin := NewAdminHandler(conn, cfg, machine)
	stateHandler := NewStateHandler(machine)

	qID, optIDs := testutil.CreateTestQuestion(t, conn, "Q1", "A", "B")
	testutil.CreateTestQuestion(t, conn, "Q2", "C", "D")
	testutil.InsertTestVote(t, conn, qID, optIDs[0], testutil.NewDeviceID())

	getState := func() models.StateResponse {
		req := testutil.MakeRequest("GET", "/api/state", nil, nil)
		w := httptest.NewRecorder()
		stateHandler.Get(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var snap models.StateResponse
		testutil.AssertJSON(t, w, &snap)
		return snap
	}

	// Fresh store is idle.
	if snap := getState(); snap.Status != models.StatusIdle || snap.TotalQuestions != 2 {
		t.Errorf("Unexpected initial state: %+v", snap)
	}

	// Start wipes votes and rewinds.
	req := testutil.MakeRequest("POST", "/api/admin/start", nil, nil)
	w := httptest.NewRecorder()
	admin.Start(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&votes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if votes != 0 {
		t.Errorf("Expected votes cleared on start, got %d", votes)
	}
	if snap := getState(); snap.Status != models.StatusRunning || snap.ActiveIndex != 0 {
		t.Errorf("Unexpected state after start: %+v", snap)
	}

	// Advance to the last question, then clamp.
	next := func() models.AdminIndexResponse {
		req := testutil.MakeRequest("POST", "/api/admin/next", nil, nil)
		w := httptest.NewRecorder()
		admin.Next(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.AdminIndexResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	if resp := next(); resp.Index != 1 {
		t.Errorf("Expected index 1, got %d", resp.Index)
	}
	for i := 0; i < 3; i++ {
		if resp := next(); resp.Index != 1 {
			t.Errorf("Expected clamped index 1, got %d", resp.Index)
		}
	}

	// End, then next revives the poll.
	req = testutil.MakeRequest("POST", "/api/admin/end", nil, nil)
	w = httptest.NewRecorder()
	admin.End(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if snap := getState(); snap.Status != models.StatusEnded {
		t.Errorf("Expected status ended, got %q", snap.Status)
	}

	next()
	if snap := getState(); snap.Status != models.StatusRunning {
		t.Errorf("Expected next to revive a running poll, got %q", snap.Status)
	}

	// Every transition broadcast stateChanged.
	if got := recorder.Count(live.EventStateChanged); got != 7 {
		t.Errorf("Expected 7 stateChanged events, got %d", got)
	}
}

func TestAdminReveal(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	machine := state.NewMachine(conn, recorder)
	admin := NewAdminHandler(conn, cfg, machine)

	for _, reveal := range []bool{true, false, true} {
		req := testutil.MakeRequest("POST", "/api/admin/reveal-correct", models.RevealRequest{Reveal: reveal}, nil)
		w := httptest.NewRecorder()
		admin.Reveal(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.RevealResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Reveal != reveal {
			t.Errorf("Expected reveal %v echoed back, got %v", reveal, resp.Reveal)
		}

		snap, err := machine.Snapshot()
		if err != nil {
			t.Fatalf("Failed to read snapshot: %v", err)
		}
		if snap.RevealCorrect != reveal {
			t.Errorf("Expected revealCorrect %v, got %v", reveal, snap.RevealCorrect)
		}
	}

	if got := recorder.Count(live.EventStateChanged); got != 3 {
		t.Errorf("Expected 3 stateChanged events, got %d", got)
	}
}

func TestAdminSetCorrect(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	recorder := &testutil.EventRecorder{}
	machine := state.NewMachine(conn, recorder)
	admin := NewAdminHandler(conn, cfg, machine)

	questionID, optionIDs := testutil.CreateTestQuestion(t, conn, "Q", "A", "B")
	_, otherOptions := testutil.CreateTestQuestion(t, conn, "Other", "X", "Y")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "set correct option",
			requestBody:    models.SetCorrectRequest{QuestionID: questionID, OptionID: &optionIDs[1]},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "clear correct option",
			requestBody:    models.SetCorrectRequest{QuestionID: questionID},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "option from another question",
			requestBody:    models.SetCorrectRequest{QuestionID: questionID, OptionID: &otherOptions[0]},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing question id",
			requestBody:    models.SetCorrectRequest{OptionID: &optionIDs[0]},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown question",
			requestBody:    models.SetCorrectRequest{QuestionID: 99999},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/correct", tt.requestBody, nil)
			w := httptest.NewRecorder()
			admin.SetCorrect(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Final state from the sequence above: cleared.
	var correct *int64
	if err := conn.QueryRow(`
		SELECT correct_option_id FROM questions WHERE id = $1
	`, questionID).Scan(&correct); err != nil {
		t.Fatalf("Failed to read correct option: %v", err)
	}
	if correct != nil {
		t.Errorf("Expected correct option cleared, got %v", *correct)
	}
}

func TestAdminKeyGate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AdminKey = "sekrit"
	recorder := &testutil.EventRecorder{}
	machine := state.NewMachine(conn, recorder)
	admin := NewAdminHandler(conn, cfg, machine)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized},
		{"correct key", map[string]string{"X-Admin-Key": "sekrit"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/start", nil, tt.headers)
			w := httptest.NewRecorder()
			admin.Start(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
