package github

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/osscompass/schema"
)

// ErrEmptyPayload is returned when a saved response holds no JSON at all.
var ErrEmptyPayload = errors.New("github: empty payload")

// DecodeRepositories reads a saved repository search response
// ({"items": [...]}) or a bare JSON array of repositories.
func DecodeRepositories(r io.Reader) ([]schema.Repository, error) {
	return decodeItems[schema.Repository](r)
}

// DecodeIssues reads a saved issue search response or a bare JSON array of issues.
func DecodeIssues(r io.Reader) ([]schema.Issue, error) {
	return decodeItems[schema.Issue](r)
}

func decodeItems[T any](r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode array payload: %w", err)
		}
		return items, nil
	}

	var resp searchResponse[T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search payload: %w", err)
	}
	return resp.Items, nil
}
