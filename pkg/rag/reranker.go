package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxRerankCandidates caps how many candidates are submitted to the
// reranking backend in one call.
const maxRerankCandidates = 25

// Reranker reorders candidate texts by query-aware relevance. It returns
// indices into the submitted list, most relevant first.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]int, error)
}

// Rerank submits up to maxRerankCandidates segments to the backend and
// reorders them to the returned sequence. Indices the backend does not
// return are discarded. A backend failure is surfaced; there is no
// fallback to the unranked order.
func Rerank(ctx context.Context, reranker Reranker, query string, segments []ScoredSegment) ([]ScoredSegment, error) {
	if len(segments) > maxRerankCandidates {
		segments = segments[:maxRerankCandidates]
	}
	if len(segments) == 0 {
		return segments, nil
	}

	documents := make([]string, len(segments))
	for i, segment := range segments {
		documents[i] = segment.Segment.Text
	}
	indices, err := reranker.Rerank(ctx, query, documents)
	if err != nil {
		return nil, fmt.Errorf("rerank %d candidates: %w", len(documents), err)
	}

	reranked := make([]ScoredSegment, 0, len(indices))
	for _, index := range indices {
		if index < 0 || index >= len(segments) {
			continue
		}
		reranked = append(reranked, segments[index])
	}
	return reranked, nil
}

// HTTPReranker calls a Jina-compatible rerank API.
type HTTPReranker struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ Reranker = &HTTPReranker{}

func NewHTTPReranker(apiKey, baseURL, model string) *HTTPReranker {
	return &HTTPReranker{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Detail string `json:"detail,omitempty"`
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, documents []string) ([]int, error) {
	payload, err := json.Marshal(rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      len(documents),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/rerank", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp rerankResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	indices := make([]int, len(apiResp.Results))
	for i, result := range apiResp.Results {
		indices[i] = result.Index
	}
	return indices, nil
}
