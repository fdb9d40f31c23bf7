package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func listDocuments(client *http.Client, baseURL string) ([]uuid.UUID, error) {
	resp, err := client.Get(baseURL + "/v1/documents")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var listing struct {
		Documents []uuid.UUID `json:"documents"`
	}
	if err := decodeResponse(resp, &listing); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return listing.Documents, nil
}

func getDocument(client *http.Client, baseURL string, id uuid.UUID) (*vars.Document, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/documents/%s", baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var doc vars.Document
	if err := decodeResponse(resp, &doc); err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func createDocument(client *http.Client, baseURL string, name string) (*vars.Document, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/v1/documents", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var doc vars.Document
	if err := decodeResponse(resp, &doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

func applyActions(client *http.Client, baseURL string, id uuid.UUID, acts []actions.Action) (*vars.Document, error) {
	payload, err := json.Marshal(map[string][]actions.Action{"actions": acts})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/documents/%s/apply", baseURL, id), "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var doc vars.Document
	if err := decodeResponse(resp, &doc); err != nil {
		return nil, fmt.Errorf("failed to apply actions: %w", err)
	}
	return &doc, nil
}

type evaluateResponse struct {
	Result     bool `json:"result"`
	Operations []struct {
		Result     bool   `json:"result"`
		ResolvedBy string `json:"resolved_by"`
	} `json:"operations"`
}

func evaluateOperations(client *http.Client, baseURL string, id uuid.UUID, ops []conditions.Operation) (*evaluateResponse, error) {
	payload, err := json.Marshal(map[string][]conditions.Operation{"operations": ops})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/documents/%s/evaluate", baseURL, id), "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result evaluateResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to evaluate operations: %w", err)
	}
	return &result, nil
}
