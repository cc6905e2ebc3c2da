package endpoints

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/internal/store"
)

type interestRequest struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

type interestResponse struct {
	Status string `json:"status"`
	Slug   string `json:"slug"`
}

// InterestHandler records a recruiter contact request against a resume.
func InterestHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		req.Slug = strings.TrimSpace(req.Slug)
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if req.Slug == "" {
			writeError(w, http.StatusBadRequest, "Slug is required")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "Name is required")
			return
		}
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			writeError(w, http.StatusBadRequest, "A valid email is required")
			return
		}

		g, err := deps.Loader.Load(r.Context(), req.Slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Resume not found")
				return
			}
			log.Printf("Failed to resolve resume for interest: %v", err)
			writeError(w, http.StatusServiceUnavailable, "Resume context unavailable")
			return
		}

		err = deps.Interest.InsertRecruiterInterest(r.Context(), g.ResumeID, req.Name, req.Email,
			strings.TrimSpace(req.Company), strings.TrimSpace(req.Message))
		if err != nil {
			log.Printf("Failed to record recruiter interest: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to record interest")
			return
		}

		writeJSON(w, http.StatusCreated, interestResponse{Status: "received", Slug: req.Slug})
	}
}
