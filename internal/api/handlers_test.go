package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/internal/store"
	"github.com/finsent/newsradar/pkg/logger"
	"github.com/finsent/newsradar/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeController struct {
	triggerErr error
	stopErr    error
	status     models.PipelineStatus

	lastOpts pipeline.RunOptions
}

func (f *fakeController) Trigger(opts pipeline.RunOptions) error {
	f.lastOpts = opts
	return f.triggerErr
}

func (f *fakeController) Stop() error                  { return f.stopErr }
func (f *fakeController) Status() models.PipelineStatus { return f.status }

type fakeNames struct{ names []string }

func (f fakeNames) Names() []string { return f.names }

type fakeScheduler struct {
	rescheduled string
	err         error
}

func (f *fakeScheduler) Reschedule(hhmm string) error {
	f.rescheduled = hhmm
	return f.err
}

func newTestServer(t *testing.T, controller *fakeController, st *store.Store, sched Scheduler) *Server {
	t.Helper()
	return NewServer(0, controller, st, fakeNames{[]string{"zawya.com", "menabytes.com"}}, sched, nil, nil)
}

func mockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.New(sqlx.NewDb(db, "sqlmock")), mock
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)
	return w
}

func TestTriggerAccepted(t *testing.T) {
	controller := &fakeController{}
	s := newTestServer(t, controller, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/pipeline/trigger", `{"provider":"groq","scrapers":["zawya.com"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if controller.lastOpts.Provider != "groq" {
		t.Errorf("provider not forwarded: %+v", controller.lastOpts)
	}
	if len(controller.lastOpts.Scrapers) != 1 || controller.lastOpts.Scrapers[0] != "zawya.com" {
		t.Errorf("scraper selection not forwarded: %+v", controller.lastOpts)
	}
}

func TestTriggerEmptyBodyAccepted(t *testing.T) {
	s := newTestServer(t, &fakeController{}, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/pipeline/trigger", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
}

func TestTriggerConflictWhileRunning(t *testing.T) {
	s := newTestServer(t, &fakeController{triggerErr: pipeline.ErrAlreadyRunning}, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/pipeline/trigger", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestStopWithoutRun(t *testing.T) {
	s := newTestServer(t, &fakeController{stopErr: pipeline.ErrNotRunning}, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/pipeline/stop", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStatusSnapshot(t *testing.T) {
	controller := &fakeController{status: models.PipelineStatus{
		IsRunning:   true,
		Status:      "Analyzing sentiment",
		Progress:    3,
		Total:       10,
		CurrentTask: "Analyzing article ID: 7",
	}}
	s := newTestServer(t, controller, nil, nil)

	w := doRequest(s, http.MethodGet, "/api/pipeline/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got models.PipelineStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != controller.status {
		t.Errorf("snapshot = %+v, want %+v", got, controller.status)
	}
}

func TestScheduleValidation(t *testing.T) {
	st, _ := mockStore(t)
	sched := &fakeScheduler{}
	s := newTestServer(t, &fakeController{}, st, sched)

	w := doRequest(s, http.MethodPost, "/api/pipeline/schedule", `{"schedule_time":"25:99"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed time", w.Code)
	}
	if sched.rescheduled != "" {
		t.Error("scheduler must not be touched on invalid input")
	}
}

func TestSchedulePersistsAndReschedules(t *testing.T) {
	st, mock := mockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_config")).
		WithArgs("schedule_time", "06:30").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sched := &fakeScheduler{}
	s := newTestServer(t, &fakeController{}, st, sched)

	w := doRequest(s, http.MethodPost, "/api/pipeline/schedule", `{"schedule_time":"06:30"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if sched.rescheduled != "06:30" {
		t.Errorf("rescheduled = %q, want 06:30", sched.rescheduled)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestScrapersList(t *testing.T) {
	s := newTestServer(t, &fakeController{}, nil, nil)

	w := doRequest(s, http.MethodGet, "/api/scrapers", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Scrapers []string `json:"scrapers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Scrapers) != 2 || body.Scrapers[0] != "zawya.com" {
		t.Errorf("unexpected scrapers: %v", body.Scrapers)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakeController{}, nil, nil)

	w := doRequest(s, http.MethodOptions, "/api/pipeline/status", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on preflight")
	}
}
