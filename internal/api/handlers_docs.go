package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/sectionize/internal/chunk"
	"github.com/dgallion1/sectionize/internal/serialize"
	"github.com/go-chi/chi/v5"
)

// handleListChunks returns the stored chunk records for a document.
func (s *Server) handleListChunks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	chunks, err := s.orchestrator.ChunkstoreClient().ListChunks(r.Context(), docID, limit)
	if err != nil {
		jsonError(w, "failed to list chunks: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "records" {
		recs := make([]chunk.Chunk, 0, len(chunks))
		for _, c := range chunks {
			recs = append(recs, chunk.Chunk{
				ID:                 c.ID,
				Role:               c.Role,
				Header:             c.Header,
				Title:              c.Title,
				Text:               c.Text,
				PrecedingHeaderIDs: c.PrecedingHeaderIDs,
				PrecedingChunkIDs:  c.PrecedingChunkIDs,
			})
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := serialize.WriteRecords(w, recs); err != nil {
			s.log.Error("record write failed", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": docID,
		"count":  len(chunks),
		"chunks": chunks,
	})
}

// handleDeleteDocument removes a document's chunks and metadata from
// the chunkstore.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	if err := s.orchestrator.ChunkstoreClient().DeleteDocument(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":  docID,
		"deleted": true,
	})
}
