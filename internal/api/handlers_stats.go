package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/sectionize/internal/roles"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	client, ok := s.annotator.(*roles.Client)
	if !ok || client.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": client.Model(),
		"stats": client.Stats.Snapshot(),
	})
}
