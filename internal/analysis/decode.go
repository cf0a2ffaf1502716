package analysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed analysis.schema.json
var schema string

// ValidationError lists the schema violations of a stored analysis.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid analysis:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Decode parses a stored analysis. Both the bare analysis object and the
// backend envelope {"analysis": {...}} are accepted.
func Decode(data []byte) (*Analysis, error) {
	raw, err := unwrapEnvelope(data)
	if err != nil {
		return nil, err
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	if strings.TrimSpace(a.FullText) == "" {
		return nil, ErrEmptyAnalysis
	}

	return a.Normalize(), nil
}

func unwrapEnvelope(data []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	if _, ok := fields["full_text"]; ok {
		return data, nil
	}

	if inner, ok := fields["analysis"]; ok {
		return inner, nil
	}

	return data, nil
}

func validate(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate analysis: %w", err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}

	return verr
}
