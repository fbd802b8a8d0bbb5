// Package websearch provides a web search tool backed by the Serper API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tombee/mcpscout/pkg/errors"
	"github.com/tombee/mcpscout/pkg/httpclient"
	"github.com/tombee/mcpscout/pkg/tools"
)

const (
	// ToolName is the name the LLM uses to call the tool.
	ToolName = "web_search"

	defaultSerperURL = "https://google.serper.dev"
	defaultResults   = 5
	maxResults       = 10
)

// Result is a single organic search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Config configures the Serper tool.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Tool searches the web through Serper.
type Tool struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ tools.Tool = (*Tool)(nil)

// New creates a Serper-backed web search tool.
func New(cfg Config) (*Tool, error) {
	if cfg.APIKey == "" {
		return nil, &errors.ConfigError{
			Key:    "tools.serper_api_key",
			Reason: "an API key is required for web search",
		}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultSerperURL
	}

	hc := httpclient.DefaultConfig()
	hc.UserAgent = "mcpscout-websearch/1.0"
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Tool{apiKey: cfg.APIKey, baseURL: baseURL, httpClient: client}, nil
}

// Name implements tools.Tool.
func (t *Tool) Name() string { return ToolName }

// Description implements tools.Tool.
func (t *Tool) Description() string {
	return "Search the web for current information. Returns titles, links and snippets of the top results."
}

// Schema implements tools.Tool.
func (t *Tool) Schema() *tools.Schema {
	return &tools.Schema{
		Inputs: &tools.ParameterSchema{
			Type: "object",
			Properties: map[string]*tools.Property{
				"query": {Type: "string", Description: "The search query"},
				"num":   {Type: "integer", Description: "Number of results (1-10)", Default: defaultResults},
			},
			Required: []string{"query"},
		},
		Outputs: &tools.ParameterSchema{
			Type: "object",
			Properties: map[string]*tools.Property{
				"results": {Type: "array", Description: "Search hits with title, url and snippet"},
			},
		},
	}
}

// Execute implements tools.Tool.
func (t *Tool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	query, _ := inputs["query"].(string)
	results, err := t.Search(ctx, query, intInput(inputs["num"], defaultResults))
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"results": results}, nil
}

// Search returns up to num organic results for q.
func (t *Tool) Search(ctx context.Context, q string, num int) ([]Result, error) {
	if num <= 0 {
		num = defaultResults
	}
	if num > maxResults {
		num = maxResults
	}

	header := http.Header{}
	header.Set("X-API-KEY", t.apiKey)

	status, body, err := httpclient.PostJSON(ctx, t.httpClient, t.baseURL+"/search", map[string]any{"q": q, "num": num}, header)
	if err != nil {
		return nil, &errors.ProviderError{Provider: "serper", Message: fmt.Sprintf("request failed: %v", err), Cause: err}
	}
	if !httpclient.IsSuccess(status) {
		return nil, &errors.ProviderError{
			Provider:   "serper",
			StatusCode: status,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &errors.ProviderError{Provider: "serper", StatusCode: status, Message: fmt.Sprintf("failed to parse response: %v", err), Cause: err}
	}

	out := make([]Result, 0, len(raw.Organic))
	for i, item := range raw.Organic {
		if i >= num {
			break
		}
		out = append(out, Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}

	return out, nil
}

// intInput accepts the number shapes a decoded JSON argument can take.
func intInput(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return def
}
