package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Handlers struct {
	DB *DB
}

// SendJSON is a helper for sending JSON responses
func SendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log error in real app, but for now we just return
		http.Error(w, `{"detail": "Failed to encode response"}`, http.StatusInternalServerError)
	}
}

// HandleRoot handles GET /{$} and sends visitors to the sign-up page.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// HandleListActivities handles GET /activities
func (h *Handlers) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.DB.ListActivities(r.Context())
	if err != nil {
		SendJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
		return
	}

	SendJSON(w, http.StatusOK, activities)
}

// HandleSignup handles POST /activities/{name}/signup?email=...
func (h *Handlers) HandleSignup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")
	if email == "" {
		SendJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email is required"})
		return
	}

	if err := h.DB.Signup(r.Context(), name, email); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			SendJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
			return
		}
		if errors.Is(err, ErrAlreadySignedUp) {
			SendJSON(w, http.StatusBadRequest, map[string]string{"detail": "Student is already signed up"})
			return
		}

		SendJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
		return
	}

	SendJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// HandleUnregister handles DELETE /activities/{name}/unregister?email=...
func (h *Handlers) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")
	if email == "" {
		SendJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email is required"})
		return
	}

	if err := h.DB.Unregister(r.Context(), name, email); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			SendJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
			return
		}
		if errors.Is(err, ErrNotSignedUp) {
			SendJSON(w, http.StatusBadRequest, map[string]string{"detail": "Student is not signed up for this activity"})
			return
		}

		SendJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
		return
	}

	SendJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}
