// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// doJSON performs a JSON request for the hand-rolled REST providers
// (Gemini, Claude). Non-2xx answers become a classified *Error.
func doJSON(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s marshal: %w", provider, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Provider: provider, Message: err.Error(), Err: fmt.Errorf("%s http: %w", provider, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(provider, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s unmarshal: %w", provider, err)
	}
	return nil
}

// apiErrorBody covers the error envelopes of Gemini ({error:{code,
// message, status}}) and Claude ({error:{type, message}}).
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Status  string `json:"status"`
	} `json:"error"`
}

func httpError(provider string, status int, body []byte) *Error {
	e := &Error{Provider: provider, StatusCode: status}
	var parsed apiErrorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		e.Message = parsed.Error.Message
		e.Type = parsed.Error.Type
		e.Code = strings.ToLower(parsed.Error.Status)
	} else {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	return e
}
