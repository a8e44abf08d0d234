package handler

import "net/http"

// VersionResponse reports the running build
type VersionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HandleVersion returns the deployed service version
func HandleVersion(service, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionResponse{
			Service: service,
			Version: version,
		})
	}
}
