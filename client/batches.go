package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// BatchService handles batch and attachment operations.
type BatchService struct {
	c *Client
}

// BatchListOptions filters and paginates batch listings.
type BatchListOptions struct {
	Status  string
	Product string
	Limit   int
	Offset  int
}

// batchListResponse wraps the paginated batch list response.
type batchListResponse struct {
	Batches []Batch `json:"batches"`
	HasMore bool    `json:"has_more"`
}

// List returns batches with optional filtering and pagination.
func (s *BatchService) List(ctx context.Context, opts *BatchListOptions) ([]Batch, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Product != "" {
			params.Set("product", opts.Product)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp batchListResponse
	if err := s.c.get(ctx, "/v1/batches", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Batches, resp.HasMore, nil
}

// Get returns a single batch by batch code.
func (s *BatchService) Get(ctx context.Context, id string) (*Batch, error) {
	var batch Batch
	if err := s.c.get(ctx, "/v1/batches/"+url.PathEscape(id), nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create creates a new batch.
func (s *BatchService) Create(ctx context.Context, req *CreateBatchRequest) (*Batch, error) {
	var batch Batch
	if err := s.c.post(ctx, "/v1/batches", req, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Update applies a partial update to a batch.
func (s *BatchService) Update(ctx context.Context, id string, req *UpdateBatchRequest) (*Batch, error) {
	var batch Batch
	if err := s.c.patch(ctx, "/v1/batches/"+url.PathEscape(id), req, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Delete removes a batch by batch code.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/batches/"+url.PathEscape(id), nil, nil)
}

// ListAttachments returns a batch's attachment metadata (no file bytes).
func (s *BatchService) ListAttachments(ctx context.Context, batchID string) ([]Attachment, error) {
	var resp struct {
		Attachments []Attachment `json:"attachments"`
	}
	if err := s.c.get(ctx, "/v1/batches/"+url.PathEscape(batchID)+"/attachments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Attachments, nil
}

// UploadAttachment stores a document against a batch and returns its
// metadata, including the public download URL.
func (s *BatchService) UploadAttachment(ctx context.Context, batchID, kind, filename, contentType string, data io.Reader) (*Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if kind != "" {
		if err := mw.WriteField("kind", kind); err != nil {
			return nil, fmt.Errorf("write kind field: %w", err)
		}
	}

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	if contentType != "" {
		hdr["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("copy file data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	u := s.c.baseURL + "/v1/batches/" + url.PathEscape(batchID) + "/attachments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.c.apiKey)
	}

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var att Attachment
	if err := json.Unmarshal(body, &att); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &att, nil
}

// DownloadAttachment fetches an attachment's raw bytes.
func (s *BatchService) DownloadAttachment(ctx context.Context, batchID, attachmentID string) ([]byte, error) {
	u := s.c.baseURL + "/v1/batches/" + url.PathEscape(batchID) + "/attachments/" + url.PathEscape(attachmentID) + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.c.apiKey)
	}

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// DeleteAttachment removes an attachment from a batch.
func (s *BatchService) DeleteAttachment(ctx context.Context, batchID, attachmentID string) error {
	return s.c.del(ctx, "/v1/batches/"+url.PathEscape(batchID)+"/attachments/"+url.PathEscape(attachmentID), nil, nil)
}
