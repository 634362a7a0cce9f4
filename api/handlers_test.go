/*
handlers_test.go - HTTP-level tests for the attendance API

Exercises the full router against the in-memory store:
- employee creation and lookup
- punch recording with the alternation guard
- monthly stats and the exception approval flow
- period close/reopen over the admin surface
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/engine/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	eng := engine.New(mem, engine.DefaultPolicy())
	srv := httptest.NewServer(NewRouter(NewHandler(mem, eng)))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func createHourlyEmployee(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", CreateEmployeeRequest{
		ID:             id,
		Name:           "Test Worker",
		Email:          id + "@example.com",
		EmploymentType: "hourly",
		HourlyRate:     "50000",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("creating employee: status %d", resp.StatusCode)
	}
}

func punchVia(t *testing.T, srv *httptest.Server, id, kind, at string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/punches", PunchRequest{
		Kind: kind,
		At:   at,
	})
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestCreateAndGetEmployee(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	resp, err := http.Get(srv.URL + "/api/employees/emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var dto EmployeeDTO
	decodeBody(t, resp, &dto)
	if dto.Name != "Test Worker" || dto.EmploymentType != "hourly" {
		t.Errorf("unexpected employee payload: %+v", dto)
	}
}

func TestGetUnknownEmployeeReturns404(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/employees/ghost")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateEmployeeRejectsBadEmploymentType(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", CreateEmployeeRequest{
		ID: "emp-x", Name: "X", EmploymentType: "gig",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

// =============================================================================
// PUNCH TESTS
// =============================================================================

func TestRecordPunchPair(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	resp := punchVia(t, srv, "emp-1", "in", "2025-04-07T09:00:00Z")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("IN: expected 201, got %d", resp.StatusCode)
	}
	var dto PunchDTO
	decodeBody(t, resp, &dto)
	if dto.ID == "" || dto.Kind != "in" {
		t.Errorf("unexpected punch payload: %+v", dto)
	}

	resp = punchVia(t, srv, "emp-1", "out", "2025-04-07T17:00:00Z")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("OUT: expected 201, got %d", resp.StatusCode)
	}
}

func TestDoubleCheckInConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	resp := punchVia(t, srv, "emp-1", "in", "2025-04-07T09:00:00Z")
	resp.Body.Close()

	resp = punchVia(t, srv, "emp-1", "in", "2025-04-07T10:00:00Z")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for a double IN, got %d", resp.StatusCode)
	}
}

func TestCheckOutWithoutCheckInConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	resp := punchVia(t, srv, "emp-1", "out", "2025-04-07T17:00:00Z")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for an OUT with no open IN, got %d", resp.StatusCode)
	}
}

// =============================================================================
// STATS + EXCEPTION FLOW TESTS
// =============================================================================

func TestMonthlyStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	punchVia(t, srv, "emp-1", "in", "2025-04-07T09:00:00Z").Body.Close()
	punchVia(t, srv, "emp-1", "out", "2025-04-07T17:00:00Z").Body.Close()

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/stats?month=2025-04")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var dto MonthlyStatsDTO
	decodeBody(t, resp, &dto)

	if dto.TotalHours != 8 {
		t.Errorf("expected 8 total hours, got %v", dto.TotalHours)
	}
	if dto.DaysWorked != 1 {
		t.Errorf("expected 1 day worked, got %d", dto.DaysWorked)
	}
	if dto.BaseSalary != "400000" {
		t.Errorf("expected base salary 400000, got %s", dto.BaseSalary)
	}
}

func TestExceptionApprovalFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/exceptions", CreateExceptionRequest{
		EmployeeID: "emp-1",
		Day:        "2025-04-07",
		Kind:       "leave",
		Reason:     "family trip",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var ex ExceptionDTO
	decodeBody(t, resp, &ex)
	if ex.Status != "pending" {
		t.Fatalf("expected pending exception, got %s", ex.Status)
	}

	// It shows up in the queue.
	resp, err := http.Get(srv.URL + "/api/exceptions/pending")
	if err != nil {
		t.Fatal(err)
	}
	var queue []ExceptionDTO
	decodeBody(t, resp, &queue)
	if len(queue) != 1 {
		t.Fatalf("expected 1 pending exception, got %d", len(queue))
	}

	// Approve it.
	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/exceptions/%s/approve", srv.URL, ex.ID),
		ResolveRequest{Actor: "hr-1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on approve, got %d", resp.StatusCode)
	}

	// Re-rejecting the approved request conflicts.
	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/exceptions/%s/reject", srv.URL, ex.ID),
		ResolveRequest{Actor: "hr-2"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for a conflicting resolution, got %d", resp.StatusCode)
	}
}

// =============================================================================
// PERIOD LIFECYCLE TESTS
// =============================================================================

func TestPeriodCloseReopenEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	createHourlyEmployee(t, srv, "emp-1")

	closeURL := srv.URL + "/api/admin/periods/close"
	reopenURL := srv.URL + "/api/admin/periods/reopen"

	resp := doJSON(t, http.MethodPost, closeURL, PeriodRequest{Month: "2025-04"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on close, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, closeURL, PeriodRequest{Month: "2025-04"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 on a second close, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, reopenURL, PeriodRequest{Month: "2025-04"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on reopen, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, reopenURL, PeriodRequest{Month: "2025-04"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 reopening an open period, got %d", resp.StatusCode)
	}
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestLoadScenarioSeedsEmployees(t *testing.T) {
	srv, mem := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "late-arrivals"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	employees, err := mem.Employees(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(employees) != 2 {
		t.Errorf("expected 2 seeded employees, got %d", len(employees))
	}
}

func TestLoadUnknownScenario(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "nope"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
