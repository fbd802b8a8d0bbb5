// Package tools provides the tool abstraction and registry used by the
// tool-augmented agent.
//
// Tools are functions the LLM can call mid-completion. Each tool declares an
// input schema, which the registry validates and also hands to the provider
// as a function definition.
package tools

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/tombee/mcpscout/pkg/errors"
	"github.com/tombee/mcpscout/pkg/llm"
)

// Tool is a function the model may call mid-completion.
type Tool interface {
	Name() string

	// Description is shown to the model when it decides which tool to call.
	Description() string

	Schema() *Schema

	Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error)
}

// Schema declares a tool's inputs and, informationally, its outputs.
type Schema struct {
	Inputs  *ParameterSchema `json:"inputs"`
	Outputs *ParameterSchema `json:"outputs"`
}

// ParameterSchema is a JSON Schema subset for tool parameters.
type ParameterSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property defines a single parameter in a schema.
type Property struct {
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Default     interface{}   `json:"default,omitempty"`
}

// Registry manages available tools and provides lookup and execution.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("cannot register nil tool")
	}

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if tool.Schema() == nil {
		return fmt.Errorf("tool schema cannot be nil: %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, &errors.NotFoundError{
			Resource: "tool",
			ID:       name,
		}
	}

	return tool, nil
}

// List returns the sorted names of all registered tools.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute validates inputs against the tool's schema, fills declared
// defaults and runs the tool. The caller's map is not modified.
func (r *Registry) Execute(ctx context.Context, name string, inputs map[string]interface{}) (map[string]interface{}, error) {
	tool, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	args, err := prepareInputs(tool.Schema().Inputs, inputs)
	if err != nil {
		return nil, &errors.ValidationError{
			Field:   "inputs",
			Message: fmt.Sprintf("input validation failed for tool %s: %v", name, err),
			Hint:    "Check the tool schema for required inputs and correct types",
		}
	}

	outputs, err := tool.Execute(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed for %s: %w", name, err)
	}
	return outputs, nil
}

// prepareInputs checks required inputs, declared types and enums, and
// returns a copy of inputs with defaults applied. Undeclared inputs pass
// through unchecked.
func prepareInputs(ps *ParameterSchema, inputs map[string]interface{}) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(inputs))
	for k, v := range inputs {
		args[k] = v
	}
	if ps == nil {
		return args, nil
	}

	for _, name := range ps.Required {
		v, ok := args[name]
		if !ok {
			return nil, fmt.Errorf("required input missing: %s", name)
		}
		if s, isString := v.(string); isString && s == "" {
			return nil, fmt.Errorf("input %s must be a non-empty string", name)
		}
	}

	names := make([]string, 0, len(ps.Properties))
	for name := range ps.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := ps.Properties[name]
		v, ok := args[name]
		if !ok {
			if prop.Default != nil {
				args[name] = prop.Default
			}
			continue
		}
		if !matchesType(prop.Type, v) {
			return nil, fmt.Errorf("input %s must be of type %s", name, prop.Type)
		}
		if len(prop.Enum) > 0 && !inEnum(prop.Enum, v) {
			return nil, fmt.Errorf("input %s must be one of %v", name, prop.Enum)
		}
	}
	return args, nil
}

// matchesType checks v against a JSON Schema type. Numbers arrive as
// float64 from decoded model output and as Go ints from direct callers.
// An empty or unknown type accepts anything.
func matchesType(typ string, v interface{}) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "number", "integer":
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return typ == "number" || n == float64(int64(n))
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "array":
		_, ok := v.([]interface{})
		return ok
	case "object":
		_, ok := v.(map[string]interface{})
		return ok
	}
	return true
}

func inEnum(enum []interface{}, v interface{}) bool {
	for _, e := range enum {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

// Definitions returns the registered tools as provider function
// definitions, sorted by name.
func (r *Registry) Definitions() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llm.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, llm.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: inputSchemaMap(tool.Schema().Inputs),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

func inputSchemaMap(ps *ParameterSchema) map[string]interface{} {
	out := map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	if ps == nil {
		return out
	}

	props := make(map[string]interface{}, len(ps.Properties))
	for name, p := range ps.Properties {
		m := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			m["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			m["enum"] = p.Enum
		}
		if p.Default != nil {
			m["default"] = p.Default
		}
		props[name] = m
	}
	out["properties"] = props
	if len(ps.Required) > 0 {
		out["required"] = append([]string(nil), ps.Required...)
	}
	if ps.Description != "" {
		out["description"] = ps.Description
	}

	return out
}
