// cmd/api/healthcheck.go
package main

import (
	"context"
	"net/http"
	"time"
)

// healthcheckHandler reports that the process is up, with its environment
// and version. It never touches storage.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	body := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readinessHandler answers 200 only when the storage backend responds to a
// ping within two seconds.
func (app *applicationDependencies) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.models.Ping(ctx); err != nil {
		app.logError(r, err)
		app.serviceUnavailableResponse(w, r)
		return
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"status": "ready"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
