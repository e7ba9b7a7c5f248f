// ABOUTME: Lenient parsing of the collaborator's intake JSON
// ABOUTME: Strips wrapper text and validates the expected turn schema
package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse marks collaborator output that does not satisfy the
// turn schema. The wrapped message carries the raw text for diagnostics.
var ErrMalformedResponse = errors.New("malformed AI response")

// turnPayload is the JSON structure the collaborator must return per turn.
type turnPayload struct {
	AIResponse     string
	Extracted      map[string]any
	ReadyToSave    bool
	MissingFields  []string
	XScoreAssigned bool
}

// extractJSONObject locates the JSON object inside a response that may be
// wrapped in markdown code fences or prose.
func extractJSONObject(content string) (string, bool) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// ParseUpdate decodes a rescore/revision response from the collaborator.
// Returns the user-facing message and a field map of changes; schema
// violations fail with ErrMalformedResponse and the raw text.
func ParseUpdate(content string) (string, map[string]any, error) {
	raw, ok := extractJSONObject(content)
	if !ok || !gjson.Valid(raw) {
		return "", nil, fmt.Errorf("%w: %s", ErrMalformedResponse, content)
	}

	message := gjson.Get(raw, "message")
	if message.Type != gjson.String {
		return "", nil, fmt.Errorf("%w: %s", ErrMalformedResponse, content)
	}

	updates := make(map[string]any)
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case "message":
			// user-facing text, not a contact field
		case "x_score":
			updates[key.Str] = int(value.Int())
		default:
			if value.Type == gjson.String && value.String() != "" {
				updates[key.Str] = value.String()
			}
		}
		return true
	})

	return message.String(), updates, nil
}

// parseTurn validates and decodes one collaborator turn. Any schema
// violation fails the whole turn so the session state never advances on
// garbage.
func parseTurn(content string) (*turnPayload, error) {
	raw, ok := extractJSONObject(content)
	if !ok || !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, content)
	}

	aiResponse := gjson.Get(raw, "aiResponse")
	ready := gjson.Get(raw, "readyToSave")
	if aiResponse.Type != gjson.String || !ready.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, content)
	}

	payload := &turnPayload{
		AIResponse:     aiResponse.String(),
		Extracted:      make(map[string]any),
		ReadyToSave:    ready.Bool(),
		XScoreAssigned: gjson.Get(raw, "xScoreAssigned").Bool(),
	}

	extracted := gjson.Get(raw, "extractedData")
	if extracted.Exists() && !extracted.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, content)
	}
	extracted.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.Null:
			// skip nulls; merge semantics treat them as no value
		case key.Str == "x_score":
			payload.Extracted[key.Str] = int(value.Int())
		case value.Type == gjson.String:
			payload.Extracted[key.Str] = value.String()
		default:
			payload.Extracted[key.Str] = value.Value()
		}
		return true
	})

	for _, f := range gjson.Get(raw, "missingFields").Array() {
		payload.MissingFields = append(payload.MissingFields, f.String())
	}

	return payload, nil
}
