// Package httpclient builds the *http.Client shared by every outbound call in
// mcpscout: LLM providers, the candidate search service, the remote task
// gateway and the web search tool.
//
// Clients created here:
//   - apply a total request timeout
//   - inject a User-Agent header
//   - propagate the active trace context (W3C traceparent)
//   - log each request at debug level with sanitized URLs
//
// There is deliberately no retry layer. A failed call ends the task loop run
// or search that issued it, and the user restarts manually.
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "mcpscout-search/1.0"
//	client, err := httpclient.New(cfg)
package httpclient
