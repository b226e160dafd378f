package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/sectionize/internal/chunk"
	"github.com/dgallion1/sectionize/internal/chunkstore"
	"github.com/dgallion1/sectionize/internal/parser"
	"github.com/dgallion1/sectionize/internal/roles"
	"github.com/dgallion1/sectionize/internal/section"
	"github.com/dgallion1/sectionize/internal/serialize"
)

// Worker processes a single document job.
type Worker struct {
	annotator roles.Annotator
	catalog   []roles.Role
	store     *chunkstore.Client
	log       *slog.Logger

	maxConcurrentAnnotate int
	maxConcurrentStore    int
	pdfFallback           bool
}

func NewWorker(annotator roles.Annotator, catalog []roles.Role, store *chunkstore.Client, log *slog.Logger, maxAnnotate, maxStore int, pdfFallback bool) *Worker {
	return &Worker{
		annotator:             annotator,
		catalog:               catalog,
		store:                 store,
		log:                   log,
		maxConcurrentAnnotate: maxAnnotate,
		maxConcurrentStore:    maxStore,
		pdfFallback:           pdfFallback,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfExt, ok := p.(*parser.PDFExtractor); ok {
		pdfExt.FallbackPdftotext = w.pdfFallback
	}

	text, err := p.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.ContentHash = ContentHashHex([]byte(text))

	// Phase 1.5: Dedup check
	existingDocID, err := w.store.FindByHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingDocID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Fold wrapped lines so scattered section bodies rejoin
	// their headers before scanning.
	if job.Options.Fold {
		job.SetStatus(StatusSectioning, "folding")
		text = section.FoldLines(text)
	}

	// Phase 3: Section scan
	job.SetStatus(StatusSectioning, "sectioning")
	records := section.Extract(text, section.Options{IncludePreamble: job.Options.IncludePreamble})
	log.Info("sectioned document", "sections", len(records))

	// Phase 4: Chunk
	job.SetStatus(StatusChunking, "chunking")
	var chunks []chunk.Chunk
	if len(records) == 0 {
		if !job.Options.FallbackUnstructured {
			log.Warn("no section headers found")
			job.AddError("no section headers found")
			job.SetStatus(StatusFailed, "sectioning")
			return
		}
		log.Info("no section headers found, storing as single chunk")
		chunks = chunk.Unstructured(text)
	} else {
		chunks = chunk.Build(records)
	}
	job.SetTotals(len(records), len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	hadErrors := false

	// Phase 5: Annotate chunks with roles, bounded concurrency.
	if job.Options.Annotate && w.annotator != nil {
		job.SetStatus(StatusAnnotating, "annotating")
		hadErrors = w.annotate(ctx, job, chunks, log)
	}

	// Phase 6: Store chunks.
	job.SetStatus(StatusStoring, "storing")
	storedCount := w.storeChunks(ctx, job, chunks, log, &hadErrors)

	meta := chunkstore.DocumentMeta{
		Filename:    job.Filename,
		Title:       job.Title,
		ContentHash: job.ContentHash,
		TotalChunks: len(chunks),
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
	}
	if err := w.store.PutMeta(ctx, job.DocID, meta); err != nil {
		log.Error("meta write failed", "error", err)
		job.AddError(fmt.Sprintf("meta: %s", err))
		hadErrors = true
	}

	log.Info("storage complete", "stored", storedCount, "total", len(chunks))

	if hadErrors && storedCount > 0 {
		job.SetStatus(StatusPartial, "done")
	} else if hadErrors {
		job.SetStatus(StatusFailed, "storing")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// annotate fills in chunk roles via the model, retrying retryable
// failures with jittered backoff. Returns true if any chunk failed.
func (w *Worker) annotate(ctx context.Context, job *Job, chunks []chunk.Chunk, log *slog.Logger) bool {
	type annotateResult struct {
		idx  int
		role string
		err  error
	}
	results := make(chan annotateResult, len(chunks))
	sem := make(chan struct{}, w.maxConcurrentAnnotate)

	for i := range chunks {
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem }()
			payload, err := serialize.MarshalRecord(chunks[i])
			if err != nil {
				results <- annotateResult{idx: i, err: err}
				return
			}
			var role string
			var lastErr error
			for attempt := range MaxRetries {
				role, lastErr = w.annotator.IdentifyRole(ctx, w.catalog, payload)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable annotation error", "chunk", chunks[i].ID, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- annotateResult{idx: i, err: ctx.Err()}
					return
				}
			}
			results <- annotateResult{idx: i, role: role, err: lastErr}
		}(i)
	}

	hadErrors := false
	for range chunks {
		r := <-results
		if r.err != nil {
			log.Error("annotation failed", "chunk", chunks[r.idx].ID, "error", r.err)
			job.AddError(fmt.Sprintf("annotate %s: %s", chunks[r.idx].ID, r.err))
			chunks[r.idx].Role = roles.RoleNotFound
			hadErrors = true
			continue
		}
		chunks[r.idx].Role = r.role
		job.IncrAnnotated(r.role != roles.RoleNotFound)
	}
	return hadErrors
}

// storeChunks pushes chunk records downstream with bounded concurrency
// and returns how many landed.
func (w *Worker) storeChunks(ctx context.Context, job *Job, chunks []chunk.Chunk, log *slog.Logger, hadErrors *bool) int {
	type storeResult struct {
		idx int
		err error
	}
	results := make(chan storeResult, len(chunks))
	sem := make(chan struct{}, w.maxConcurrentStore)

	for i, c := range chunks {
		sem <- struct{}{}
		go func(i int, c chunk.Chunk) {
			defer func() { <-sem }()
			rec := chunkstore.ChunkRecord{
				ID:                 c.ID,
				Role:               c.Role,
				Header:             c.Header,
				Title:              c.Title,
				Text:               c.Text,
				PrecedingHeaderIDs: c.PrecedingHeaderIDs,
				PrecedingChunkIDs:  c.PrecedingChunkIDs,
				Source:             job.Filename,
			}
			results <- storeResult{idx: i, err: w.store.PutChunk(ctx, job.DocID, rec)}
		}(i, c)
	}

	stored := 0
	for range chunks {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "chunk", chunks[r.idx].ID, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", chunks[r.idx].ID, r.err))
			*hadErrors = true
			continue
		}
		stored++
		job.IncrStored()
	}
	return stored
}
