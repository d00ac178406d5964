/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the shared shape library API.
// It is used by the desktop app under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// ListDocuments returns library documents, optionally filtered by a name query.
func (c *Client) ListDocuments(ctx context.Context, nameQuery string) ([]DocumentInfo, error) {
	path := "/api/documents"
	if nameQuery != "" {
		path += "?q=" + url.QueryEscape(nameQuery)
	}
	var list []DocumentInfo
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DocumentEnvelope matches the server response for a full document fetch.
type DocumentEnvelope struct {
	StableID  string          `json:"stable_id"`
	Name      string          `json:"name"`
	Version   int64           `json:"version"`
	UpdatedAt string          `json:"updated_at"`
	Doc       json.RawMessage `json:"doc"`
}

// FetchDocument fetches the full document with the given stable id.
func (c *Client) FetchDocument(ctx context.Context, stableID string) (*DocumentEnvelope, error) {
	var env DocumentEnvelope
	path := "/api/documents/" + url.PathEscape(stableID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushDocument upserts a document into the library and returns the new version.
func (c *Client) PushDocument(ctx context.Context, stableID, name string, doc json.RawMessage) (int64, error) {
	body, err := json.Marshal(map[string]any{"name": name, "doc": doc})
	if err != nil {
		return 0, err
	}
	var resp struct {
		StableID string `json:"stable_id"`
		Version  int64  `json:"version"`
	}
	path := "/api/documents/" + url.PathEscape(stableID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}
