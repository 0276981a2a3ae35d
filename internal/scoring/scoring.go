// Package scoring sends extracted resume text to an external language model and
// decodes the ATS score and feedback documents it returns.
package scoring

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrDownstreamUnavailable means the model endpoint could not be reached or answered with a non-success status.
	ErrDownstreamUnavailable = errors.New("scoring service unavailable")
	// ErrInvalidResponse means the model answered but the document did not have the expected shape.
	ErrInvalidResponse = errors.New("invalid response from scoring service")
	// ErrRejected marks a client error other than 429. It is always wrapped together
	// with ErrDownstreamUnavailable and is never retried.
	ErrRejected = errors.New("scoring request rejected")
)

// Completer sends a single prompt to a language model and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CleanJSON strips markdown code fences and any prose around the outermost JSON object.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	clean = strings.TrimSpace(clean)

	if start, end := strings.Index(clean, "{"), strings.LastIndex(clean, "}"); start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	return clean
}
