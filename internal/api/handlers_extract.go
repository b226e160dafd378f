package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dgallion1/sectionize/internal/chunk"
	"github.com/dgallion1/sectionize/internal/parser"
	"github.com/dgallion1/sectionize/internal/roles"
	"github.com/dgallion1/sectionize/internal/section"
	"github.com/dgallion1/sectionize/internal/serialize"
)

// handleExtract runs the parse/fold/section stages synchronously and
// returns the section records, without queueing a job or storing
// anything. format=csv selects the CSV shape, format=records the chunk
// record stream; the default is JSON.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if pdfExt, ok := p.(*parser.PDFExtractor); ok {
		pdfExt.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	text, err := p.Extract(io.LimitReader(file, s.cfg.MaxUploadBytes+1), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if formBool(r, "fold", s.cfg.FoldLines) {
		text = section.FoldLines(text)
	}
	records := section.Extract(text, section.Options{
		IncludePreamble: formBool(r, "include_preamble", s.cfg.IncludePreamble),
	})
	if records == nil {
		// Zero sections is a valid outcome and serializes as an empty
		// list, never null.
		records = []section.Record{}
	}

	switch r.FormValue("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := serialize.WriteSectionsCSV(w, records); err != nil {
			s.log.Error("csv write failed", "error", err)
		}
	case "records":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := serialize.WriteRecords(w, chunk.Build(records)); err != nil {
			s.log.Error("record write failed", "error", err)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"filename": filename,
			"count":    len(records),
			"sections": records,
		})
	}
}

// handleRolesCatalog extracts a role catalog from an uploaded document:
// it parses the file, slices out the chapter that defines roles and
// responsibilities, and returns the "Name (ABBR)" pairs found there.
func (s *Server) handleRolesCatalog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if pdfExt, ok := p.(*parser.PDFExtractor); ok {
		pdfExt.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	text, err := p.Extract(io.LimitReader(file, s.cfg.MaxUploadBytes+1), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	chapter := s.cfg.RolesChapter
	if v := r.FormValue("chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, "chapter must be a positive integer", http.StatusBadRequest)
			return
		}
		chapter = n
	}

	catalog := roles.ExtractCatalog(text, chapter)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"chapter":  chapter,
		"count":    len(catalog),
		"roles":    catalog,
	})
}

// handleAnnotate re-annotates a chunk record stream posted in the
// request body and returns the stream with roles filled in. The heavy
// path goes through ingestion; this one exists for re-runs over records
// exported earlier.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	if s.annotator == nil {
		jsonError(w, "role annotation is disabled", http.StatusServiceUnavailable)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	chunks, err := serialize.ReadRecords(body)
	if err != nil {
		jsonError(w, "invalid record stream: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(chunks) == 0 {
		jsonError(w, "no records in request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	for i := range chunks {
		// Records that already carry a role keep it; only empty role
		// fields are filled in.
		if chunks[i].Role != "" {
			continue
		}
		payload, err := serialize.MarshalRecord(chunks[i])
		if err != nil {
			jsonError(w, fmt.Sprintf("record %s: %s", chunks[i].ID, err), http.StatusUnprocessableEntity)
			return
		}
		role, err := s.annotator.IdentifyRole(ctx, s.catalog, payload)
		if err != nil {
			jsonError(w, fmt.Sprintf("annotate %s: %s", chunks[i].ID, err), http.StatusBadGateway)
			return
		}
		chunks[i].Role = role
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := serialize.WriteRecords(w, chunks); err != nil {
		s.log.Error("record write failed", "error", err)
	}
}
