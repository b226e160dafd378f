// Package chunkstore talks to the downstream retrieval store that
// indexes finished chunk records.
package chunkstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client communicates with the chunkstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ChunkRecord is the body for PUT /documents/{docID}/chunks/{chunkID}.
// Field order matches the serialization contract with the core.
type ChunkRecord struct {
	ID                 string   `json:"id"`
	Role               string   `json:"role"`
	Header             string   `json:"header"`
	Title              string   `json:"title"`
	Text               string   `json:"text"`
	PrecedingHeaderIDs []string `json:"preceding_header_ids"`
	PrecedingChunkIDs  []string `json:"preceding_chunk_ids"`
	Source             string   `json:"source,omitempty"`
}

// DocumentMeta is the body for PUT /documents/{docID}/meta.
type DocumentMeta struct {
	Filename    string `json:"filename"`
	Title       string `json:"title,omitempty"`
	ContentHash string `json:"content_hash"`
	TotalChunks int    `json:"total_chunks"`
	CreatedAt   string `json:"created_at"`
}

// PutChunk stores or replaces one chunk record.
func (c *Client) PutChunk(ctx context.Context, docID string, rec ChunkRecord) error {
	return c.put(ctx, fmt.Sprintf("/documents/%s/chunks/%s", docID, rec.ID), rec)
}

// PutMeta stores document-level metadata, including the content hash
// used for duplicate detection.
func (c *Client) PutMeta(ctx context.Context, docID string, meta DocumentMeta) error {
	return c.put(ctx, fmt.Sprintf("/documents/%s/meta", docID), meta)
}

// FindByHash returns the id of a document already stored with the given
// content hash, or "" when none exists.
func (c *Client) FindByHash(ctx context.Context, hash string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/by_hash/"+hash, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("find by hash: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		DocID string `json:"doc_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode hash lookup: %w", err)
	}
	return result.DocID, nil
}

// ListChunks retrieves stored chunk records for a document in id order.
func (c *Client) ListChunks(ctx context.Context, docID string, limit int) ([]ChunkRecord, error) {
	u := c.baseURL + "/documents/" + docID + "/chunks"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list chunks %s: status %d: %s", docID, resp.StatusCode, string(respBody))
	}

	var result struct {
		Chunks []ChunkRecord `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}
	return result.Chunks, nil
}

// DeleteDocument removes a document, its chunks and its metadata.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/"+docID, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete document %s: status %d: %s", docID, resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
