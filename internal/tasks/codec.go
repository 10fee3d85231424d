package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaURL names the embedded schema inside the compiler.
const schemaURL = "tasks.schema.json"

// Schema is the JSON Schema the persisted task array must satisfy.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tasklist persisted tasks",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "completed", "timestamp"],
    "properties": {
      "id": {"type": "string"},
      "text": {"type": "string"},
      "completed": {"type": "boolean"},
      "timestamp": {"type": "integer", "minimum": 0}
    }
  }
}`

var recordSchema = jsonschema.MustCompileString(schemaURL, Schema)

// Encode serializes tasks as the persisted blob: a JSON array with
// 2-space indentation and a trailing newline. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a persisted blob. Every failure wraps
// ErrCorruptPersistedState.
func Decode(data []byte) ([]Task, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrCorruptPersistedState, err)
	}

	if errs := Validate(raw); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPersistedState, errors.Join(errs...))
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCorruptPersistedState, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Validate checks a decoded JSON value against Schema and returns one
// error per failing location.
func Validate(v any) []error {
	err := recordSchema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/0/text" into "[0].text".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
