package api

import "net/http"

// root handles GET / with a service banner for quick manual checks.
func root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "StackGuide API is running!",
	})
}

// queryResponse mirrors the envelope the retrieval pipeline will eventually
// fill in. Citations is always an array and confidence is always present so
// clients can code against the final shape today.
type queryResponse struct {
	Query      string   `json:"query"`
	Answer     string   `json:"answer"`
	Citations  []string `json:"citations"`
	Confidence float64  `json:"confidence"`
}

// query handles GET /api/query. The retrieval pipeline is an external
// service that is not wired in yet; until it is, this returns a static
// placeholder answer.
func query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter: q")
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:      q,
		Answer:     "This is a placeholder response. Query processing coming soon!",
		Citations:  []string{},
		Confidence: 0.0,
	})
}
