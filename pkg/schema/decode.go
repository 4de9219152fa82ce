package schema

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// structuredFields are the command parameters that carry arrays or objects
// on the wire and may therefore arrive as stringified JSON.
var structuredFields = []string{
	"available_tools",
	"success_metrics",
	"coding_standards",
	"tasklist",
	"task_mappings",
	"updated_task_data",
}

// DecodeCommand normalizes and decodes a raw tool-call payload.
// Stringified JSON in structured fields is parsed in place first; a string
// that fails to parse as JSON is reported rather than silently dropped.
// Unknown top-level keys are rejected so typos surface immediately.
func DecodeCommand(raw map[string]any) (*domain.Command, error) {
	var errs []error

	normalized := make(map[string]any, len(raw))
	for k, v := range raw {
		normalized[k] = v
	}
	for _, field := range structuredFields {
		v, ok := normalized[field]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			continue
		}
		if strings.TrimSpace(s) == "" {
			delete(normalized, field)
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			errs = append(errs, &ValidationError{
				Key:    field,
				Reason: "string value is not valid JSON: " + err.Error(),
				Value:  v,
			})
			continue
		}
		normalized[field] = parsed
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	var cmd domain.Command
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cmd,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(normalized); err != nil {
		if merr, ok := err.(*mapstructure.Error); ok {
			for _, e := range merr.WrappedErrors() {
				errs = append(errs, e)
			}
			return nil, &AggregateError{Errors: errs}
		}
		return nil, err
	}
	for _, key := range md.Unused {
		errs = append(errs, &ValidationError{Key: key, Reason: "unknown parameter"})
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return &cmd, nil
}
