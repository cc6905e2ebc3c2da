package endpoints

import (
	"log"
	"net/http"
)

type healthResponse struct {
	Status            string `json:"status"`
	APIType           string `json:"api_type"`
	BackendURL        string `json:"llama_server"`
	ServerReachable   bool   `json:"server_reachable"`
	DatabaseReachable bool   `json:"database_reachable"`
}

// HealthHandler probes the generation backend and the store. An unreachable
// backend makes the service unhealthy (503); a store problem only degrades
// it, since the chat pipeline is useless without generation but can report
// store failures per-request.
func HealthHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:            "healthy",
			APIType:           deps.Config.BackendType,
			BackendURL:        deps.Config.BackendURL,
			ServerReachable:   true,
			DatabaseReachable: true,
		}

		if err := deps.LLM.Ping(r.Context()); err != nil {
			log.Printf("Health probe: backend unreachable: %v", err)
			resp.Status = "unhealthy"
			resp.ServerReachable = false
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}

		if err := deps.DB.Ping(r.Context()); err != nil {
			log.Printf("Health probe: database unreachable: %v", err)
			resp.Status = "degraded"
			resp.DatabaseReachable = false
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
