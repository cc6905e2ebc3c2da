package endpoints

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestInterestHandler(t *testing.T) {
	deps, _, _, _ := testDeps()
	interest := deps.Interest.(*fakeInterest)
	handler := InterestHandler(deps)

	rec := postJSON(t, handler, "/api/interest",
		`{"slug": "jane-doe", "name": "Sam Recruiter", "email": "sam@agency.example", "company": "Agency", "message": "Let's talk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(interest.recorded) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(interest.recorded))
	}
	got := interest.recorded[0]
	if got.resumeID != "resume-1" || got.email != "sam@agency.example" {
		t.Errorf("recorded = %+v", got)
	}
}

func TestInterestHandlerValidation(t *testing.T) {
	deps, _, _, _ := testDeps()
	handler := InterestHandler(deps)

	tests := []struct {
		name string
		body string
	}{
		{"missing slug", `{"name": "Sam", "email": "sam@agency.example"}`},
		{"missing name", `{"slug": "jane-doe", "email": "sam@agency.example"}`},
		{"bad email", `{"slug": "jane-doe", "name": "Sam", "email": "not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/interest", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestInterestHandlerUnknownSlug(t *testing.T) {
	deps, _, _, _ := testDeps()
	handler := InterestHandler(deps)

	rec := postJSON(t, handler, "/api/interest",
		`{"slug": "nobody", "name": "Sam", "email": "sam@agency.example"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInterestHandlerStoreFailure(t *testing.T) {
	deps, _, _, _ := testDeps()
	deps.Interest = &fakeInterest{err: errors.New("insert failed")}
	handler := InterestHandler(deps)

	rec := postJSON(t, handler, "/api/interest",
		`{"slug": "jane-doe", "name": "Sam", "email": "sam@agency.example"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
