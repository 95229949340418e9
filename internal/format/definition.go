package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"jobdash/internal/core"
)

// Field is one key of a Definition
type Field struct {
	Key   string
	Value any
}

// Definition is an object whose keys keep their insertion order when
// marshalled, so the pretty printer shows them in a stable, meaningful order.
type Definition []Field

// Get returns the value stored under key
func (d Definition) Get(key string) (any, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys lists the keys in order
func (d Definition) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, f := range d {
		keys = append(keys, f.Key)
	}
	return keys
}

// MarshalJSON implements json.Marshaler
func (d Definition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JobSpecDefinition reshapes a job spec into the object shown as its
// definition. Identifiers and creation time are left out; optional fields
// that are not set are dropped. The spec is not modified.
func JobSpecDefinition(spec core.JobSpec) Definition {
	initiators := make([]Definition, 0, len(spec.Initiators))
	for _, i := range spec.Initiators {
		d := Definition{{Key: "type", Value: i.Type}}
		if len(i.Params) > 0 {
			d = append(d, Field{Key: "params", Value: sortedParams(i.Params)})
		}
		initiators = append(initiators, d)
	}

	tasks := make([]Definition, 0, len(spec.Tasks))
	for _, t := range spec.Tasks {
		d := Definition{{Key: "type", Value: t.Type}}
		if t.Confirmations > 0 {
			d = append(d, Field{Key: "confirmations", Value: t.Confirmations})
		}
		if len(t.Params) > 0 {
			d = append(d, Field{Key: "params", Value: sortedParams(t.Params)})
		}
		tasks = append(tasks, d)
	}

	def := Definition{
		{Key: "initiators", Value: initiators},
		{Key: "tasks", Value: tasks},
	}
	if spec.StartAt != nil {
		def = append(def, Field{Key: "startAt", Value: spec.StartAt.UTC().Format(time.RFC3339)})
	}
	if spec.EndAt != nil {
		def = append(def, Field{Key: "endAt", Value: spec.EndAt.UTC().Format(time.RFC3339)})
	}
	if spec.MinPayment != "" {
		def = append(def, Field{Key: "minPayment", Value: spec.MinPayment})
	}
	return def
}

// PrettyJSON renders a definition as two-space indented JSON
func PrettyJSON(d Definition) (string, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("pretty print definition: %w", err)
	}
	return string(out), nil
}

func sortedParams(params map[string]any) Definition {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(Definition, 0, len(keys))
	for _, k := range keys {
		d = append(d, Field{Key: k, Value: params[k]})
	}
	return d
}
