package task

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskpilot/internal/utils"
)

// TimeLayout is the createdAt wire format: ISO-8601, UTC, milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

const embeddedSchemaURL = "https://taskpilot.local/tasks.schema.json"

//go:embed tasks.schema.json
var embeddedSchema string

// SchemaJSON returns the embedded task collection schema.
func SchemaJSON() string {
	return embeddedSchema
}

// record is the wire form of a Task.
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

// Schema is a compiled task collection schema.
type Schema struct {
	schema *jsonschema.Schema
	Source string
}

var (
	defaultSchemaOnce sync.Once
	defaultSchema     *Schema
	defaultSchemaErr  error
)

// DefaultSchema returns the compiled embedded schema.
func DefaultSchema() (*Schema, error) {
	defaultSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(embeddedSchemaURL, strings.NewReader(embeddedSchema)); err != nil {
			defaultSchemaErr = fmt.Errorf("add embedded schema: %w", err)
			return
		}
		compiled, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			defaultSchemaErr = fmt.Errorf("compile embedded schema: %w", err)
			return
		}
		defaultSchema = &Schema{schema: compiled, Source: "embedded"}
	})
	return defaultSchema, defaultSchemaErr
}

// LoadSchema compiles the schema file at path.
func LoadSchema(path string) (*Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	compiled, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return &Schema{schema: compiled, Source: absPath}, nil
}

// Validate checks a decoded JSON value against the schema. Each leaf
// violation becomes a *ValidationError; they are joined into one error.
func (s *Schema) Validate(v interface{}) error {
	if s == nil || s.schema == nil {
		return nil
	}
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// Encode serializes tasks to the slot format.
func Encode(tasks []Task) (string, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.UTC().Format(TimeLayout),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses slot contents. When schema is nil only minimal checks run.
func Decode(data string, schema *Schema) ([]Task, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	if schema != nil {
		if err := schema.Validate(raw); err != nil {
			return nil, fmt.Errorf("validate tasks: %w", err)
		}
	} else if _, ok := raw.([]interface{}); !ok {
		return nil, &ValidationError{Err: fmt.Errorf("expected an array of tasks, got %s", jsonKind(raw))}
	}

	var records []record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, r := range records {
		path := fmt.Sprintf("[%d]", i)
		if r.ID == "" {
			return nil, &ValidationError{Path: path + ".id", Err: errors.New("missing required field")}
		}
		if first, dup := seen[r.ID]; dup {
			return nil, &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %q (first at [%d])", r.ID, first)}
		}
		seen[r.ID] = i

		createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, &ValidationError{Path: path + ".createdAt", Err: fmt.Errorf("invalid timestamp %q", r.CreatedAt)}
		}

		tasks = append(tasks, Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Completed:   r.Completed,
			CreatedAt:   createdAt.UTC(),
		})
	}
	return tasks, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
