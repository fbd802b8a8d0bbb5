package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
)

// mockTool is a simple tool implementation for testing
type mockTool struct {
	name      string
	schema    *Schema
	executeFn func(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error)
}

func (m *mockTool) Name() string        { return m.name }
func (m *mockTool) Description() string { return "A test tool" }
func (m *mockTool) Schema() *Schema     { return m.schema }

func (m *mockTool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, inputs)
	}
	return map[string]interface{}{"result": "success"}, nil
}

func queryTool(name string) *mockTool {
	return &mockTool{
		name: name,
		schema: &Schema{
			Inputs: &ParameterSchema{
				Type: "object",
				Properties: map[string]*Property{
					"query": {Type: "string", Description: "Search query"},
					"limit": {Type: "integer", Default: 5},
				},
				Required: []string{"query"},
			},
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		wantErr bool
	}{
		{"valid tool", queryTool("search"), false},
		{"nil tool", nil, true},
		{"empty name", &mockTool{schema: &Schema{}}, true},
		{"nil schema", &mockTool{name: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.tool)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(queryTool("search")))
	assert.Error(t, r.Register(queryTool("search")))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(queryTool("search")))

	tool, err := r.Get("search")
	require.NoError(t, err)
	assert.Equal(t, "search", tool.Name())

	_, err = r.Get("missing")
	var nf *pkgerrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry()
	tool := queryTool("search")
	tool.executeFn = func(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"echo": inputs["query"]}, nil
	}
	require.NoError(t, r.Register(tool))

	out, err := r.Execute(context.Background(), "search", map[string]interface{}{"query": "mcp"})
	require.NoError(t, err)
	assert.Equal(t, "mcp", out["echo"])
}

func TestRegistry_ExecuteValidation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(queryTool("search")))

	tests := []struct {
		name   string
		inputs map[string]interface{}
	}{
		{"missing required", map[string]interface{}{}},
		{"empty string", map[string]interface{}{"query": ""}},
		{"wrong type", map[string]interface{}{"query": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), "search", tt.inputs)
			var valErr *pkgerrors.ValidationError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestPrepareInputs(t *testing.T) {
	schema := &ParameterSchema{
		Type: "object",
		Properties: map[string]*Property{
			"query":  {Type: "string"},
			"num":    {Type: "integer", Default: 5},
			"region": {Type: "string", Enum: []interface{}{"us", "jp"}},
			"exact":  {Type: "boolean"},
		},
		Required: []string{"query"},
	}

	tests := []struct {
		name    string
		inputs  map[string]interface{}
		want    map[string]interface{}
		wantErr string
	}{
		{
			name:   "default applied",
			inputs: map[string]interface{}{"query": "mcp"},
			want:   map[string]interface{}{"query": "mcp", "num": 5},
		},
		{
			name:   "decoded integer accepted",
			inputs: map[string]interface{}{"query": "mcp", "num": float64(3), "region": "jp"},
			want:   map[string]interface{}{"query": "mcp", "num": float64(3), "region": "jp"},
		},
		{
			name:   "undeclared inputs pass through",
			inputs: map[string]interface{}{"query": "mcp", "extra": []interface{}{1}},
			want:   map[string]interface{}{"query": "mcp", "num": 5, "extra": []interface{}{1}},
		},
		{name: "fractional integer", inputs: map[string]interface{}{"query": "mcp", "num": 2.5}, wantErr: "num must be of type integer"},
		{name: "enum miss", inputs: map[string]interface{}{"query": "mcp", "region": "eu"}, wantErr: "region must be one of"},
		{name: "wrong boolean", inputs: map[string]interface{}{"query": "mcp", "exact": "yes"}, wantErr: "exact must be of type boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepareInputs(schema, tt.inputs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ExecuteDoesNotMutateInputs(t *testing.T) {
	r := NewRegistry()
	tool := queryTool("search")
	tool.schema.Inputs.Properties["limit"] = &Property{Type: "integer", Default: 3}
	tool.executeFn = func(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"limit": inputs["limit"]}, nil
	}
	require.NoError(t, r.Register(tool))

	inputs := map[string]interface{}{"query": "x"}
	out, err := r.Execute(context.Background(), "search", inputs)
	require.NoError(t, err)
	assert.Equal(t, 3, out["limit"])
	assert.NotContains(t, inputs, "limit")
}

func TestRegistry_ExecuteToolError(t *testing.T) {
	r := NewRegistry()
	cause := errors.New("upstream down")
	tool := queryTool("search")
	tool.executeFn = func(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
		return nil, cause
	}
	require.NoError(t, r.Register(tool))

	_, err := r.Execute(context.Background(), "search", map[string]interface{}{"query": "x"})
	assert.ErrorIs(t, err, cause)
}

func TestRegistry_Definitions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(queryTool("zeta")))
	require.NoError(t, r.Register(queryTool("alpha")))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, []string{"alpha", "zeta"}, r.List())

	schema := defs[0].InputSchema
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"query"}, schema["required"])

	props := schema["properties"].(map[string]interface{})
	query := props["query"].(map[string]interface{})
	assert.Equal(t, "string", query["type"])
	limit := props["limit"].(map[string]interface{})
	assert.Equal(t, 5, limit["default"])
}
