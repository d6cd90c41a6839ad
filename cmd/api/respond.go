package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fundmanager/pkg/budget"
	"fundmanager/pkg/checklist"
	"fundmanager/pkg/emi"
	"fundmanager/pkg/khata"
	"fundmanager/pkg/metrics"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error kinds onto HTTP statuses and counts the
// failure.
func writeError(w http.ResponseWriter, operation string, err error) {
	var ve *emi.ValidationError

	switch {
	case errors.As(err, &ve):
		metrics.Errors.WithLabelValues("validation").Inc()
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, emi.ErrNonConverging):
		metrics.Errors.WithLabelValues("non_convergence").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, emi.ErrNotFound),
		errors.Is(err, budget.ErrNotFound),
		errors.Is(err, khata.ErrNotFound),
		errors.Is(err, checklist.ErrNotFound):
		metrics.Errors.WithLabelValues("not_found").Inc()
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		metrics.Errors.WithLabelValues("internal").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
	metrics.Operations.WithLabelValues(operation, "error").Inc()
}

func countOK(operation string) {
	metrics.Operations.WithLabelValues(operation, "ok").Inc()
}
