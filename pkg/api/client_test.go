package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/model"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token *oauth2.Token) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient(server.URL+"/", token, WithHTTPClient(server.Client()), WithLogger(logger), WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestListTasksSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"_id":"1","title":"a","status":"Pending","priority":"High","assignedTo":{"_id":"9","username":"dana"}},
			{"_id":"2","title":"b"}]`)
	}, &oauth2.Token{AccessToken: "secret", TokenType: "Bearer"})

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/tasks" {
		t.Errorf("Expected /api/tasks, got %s", gotPath)
	}
	if gotRequestID == "" {
		t.Error("Expected a request id header")
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[1].Status != model.StatusPending || tasks[1].Priority != model.PriorityMedium {
		t.Errorf("Expected defaults on second task, got %v/%v", tasks[1].Status, tasks[1].Priority)
	}
}

func TestListMyTasksPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `[]`)
	}, &oauth2.Token{AccessToken: "t"})

	if _, err := c.ListMyTasks(context.Background()); err != nil {
		t.Fatalf("ListMyTasks failed: %v", err)
	}
	if gotPath != "/api/tasks/my-tasks" {
		t.Errorf("Expected my-tasks path, got %s", gotPath)
	}
}

func TestListTasksRejectsUnknownStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"1","status":"Archived"}]`)
	}, &oauth2.Token{AccessToken: "t"})

	if _, err := c.ListTasks(context.Background()); err == nil {
		t.Fatal("Expected unknown status to fail the whole response")
	}
}

func TestListEmployeesFiltersRoles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"1","username":"ann","role":"Administrator"},
			{"_id":"2","username":"bob","role":"Employee"},
			{"_id":"3","username":"max","role":"Manager"}]`)
	}, &oauth2.Token{AccessToken: "t"})

	employees, err := c.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(employees) != 1 || employees[0].Username != "bob" {
		t.Errorf("Expected only bob, got %+v", employees)
	}
}

func TestCreateTaskBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"_id":"new","title":"Ship","status":"Pending","priority":"Low"}`)
	}, &oauth2.Token{AccessToken: "t"})

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := c.CreateTask(context.Background(), NewTask{
		Title:      "Ship",
		AssignedTo: "9",
		Status:     model.StatusPending,
		Priority:   model.PriorityLow,
		StartDate:  model.NewDate(start),
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID != "new" {
		t.Errorf("Expected created id, got %q", created.ID)
	}
	if body["status"] != "Pending" || body["priority"] != "Low" || body["assignedTo"] != "9" {
		t.Errorf("Unexpected body %v", body)
	}
	if body["startDate"] != "2026-03-01T09:00:00Z" {
		t.Errorf("Unexpected startDate %v", body["startDate"])
	}
	if _, ok := body["endDate"]; ok {
		t.Errorf("Expected endDate to be omitted, got %v", body["endDate"])
	}
}

func TestUpdateStatusAndFields(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&body)
		}
		calls = append(calls, call{r.Method, r.URL.Path, body})
		w.WriteHeader(http.StatusOK)
	}, &oauth2.Token{AccessToken: "t"})

	ctx := context.Background()
	if err := c.UpdateStatus(ctx, "7", model.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := c.UpdateFields(ctx, "7", "New title", nil); err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}
	if err := c.DeleteTask(ctx, "7"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("Expected 3 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPut || calls[0].path != "/api/tasks/7/status" || calls[0].body["status"] != "Completed" {
		t.Errorf("Unexpected status call %+v", calls[0])
	}
	if calls[1].path != "/api/tasks/7" || calls[1].body["title"] != "New title" {
		t.Errorf("Unexpected fields call %+v", calls[1])
	}
	if _, ok := calls[1].body["description"]; ok {
		t.Errorf("Expected description omitted when nil, got %+v", calls[1].body)
	}
	if calls[2].method != http.MethodDelete || calls[2].path != "/api/tasks/7" {
		t.Errorf("Unexpected delete call %+v", calls[2])
	}
}

func TestStatusErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"Access denied"}`)
	}, &oauth2.Token{AccessToken: "t"})

	err := c.DeleteTask(context.Background(), "1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusForbidden || statusErr.Message != "Access denied" {
		t.Errorf("Unexpected StatusError %+v", statusErr)
	}
}

func TestLoginAndMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Login must not send credentials, got %q", r.Header.Get("Authorization"))
			}
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["username"] != "ann" || creds["password"] != "pw" {
				t.Errorf("Unexpected credentials %v", creds)
			}
			io.WriteString(w, `{"token":"abc"}`)
		case "/api/auth/me":
			io.WriteString(w, `{"username":"ann","role":"Manager"}`)
		default:
			http.NotFound(w, r)
		}
	}, &oauth2.Token{AccessToken: "abc"})

	tok, err := c.Login(context.Background(), "ann", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("Expected token abc, got %q", tok.AccessToken)
	}

	s, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if s.Username != "ann" || s.Role != model.RoleManager {
		t.Errorf("Unexpected session %+v", s)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("ftp://example.com", nil); err == nil {
		t.Error("Expected non-http scheme to be rejected")
	}
}
