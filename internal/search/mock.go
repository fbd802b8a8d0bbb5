// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// MockCandidates is the fixture candidate set served by NewMockServer.
var MockCandidates = []Candidate{
	{
		ID:              "1",
		Title:           "Web Search API",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=search",
		Endpoint:        "https://api.example.com/search",
		MetaDescription: "Search the web for relevant information",
		FullDescription: "A comprehensive web search API that provides access to real-time web data and search results.",
	},
	{
		ID:              "2",
		Title:           "Knowledge Base",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=knowledge",
		Endpoint:        "https://api.example.com/knowledge",
		MetaDescription: "Access internal knowledge base",
		FullDescription: "Internal knowledge base system for quick access to company documentation and resources.",
	},
	{
		ID:              "3",
		Title:           "Database Query",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=database",
		Endpoint:        "https://api.example.com/database",
		MetaDescription: "Query structured data from databases",
		FullDescription: "Execute queries against structured databases and retrieve organized data efficiently.",
	},
	{
		ID:              "4",
		Title:           "Document Parser",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=parser",
		Endpoint:        "https://api.example.com/parser",
		MetaDescription: "Extract information from documents",
		FullDescription: "Parse and extract structured information from various document formats including PDF, DOCX, and more.",
	},
	{
		ID:              "5",
		Title:           "Translation Service",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=translate",
		Endpoint:        "https://api.example.com/translate",
		MetaDescription: "Translate text between languages",
		FullDescription: "Multi-language translation service supporting over 100 languages with high accuracy.",
	},
	{
		ID:              "6",
		Title:           "Image Analysis",
		IconURL:         "https://api.dicebear.com/7.x/shapes/svg?seed=image",
		Endpoint:        "https://api.example.com/image",
		MetaDescription: "Analyze and extract data from images",
		FullDescription: "Advanced image analysis using computer vision to extract text, objects, and insights from images.",
	},
}

// NewMockServer returns a handler that imitates the upstream search service
// with MockCandidates. Candidates whose title or descriptions mention a word
// of the query rank first; when nothing matches every candidate is returned.
func NewMockServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "message is required"})
			return
		}

		matches := matchCandidates(req.Message)
		resp := Response{
			QueryEcho:  req.Message,
			Candidates: matches,
			LLMAnswer:  fmt.Sprintf("Found %d MCP candidates for %q.", len(matches), req.Message),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func matchCandidates(query string) []Candidate {
	words := strings.Fields(strings.ToLower(query))
	var matched []Candidate
	for _, c := range MockCandidates {
		text := strings.ToLower(c.Title + " " + c.MetaDescription + " " + c.FullDescription)
		for _, w := range words {
			if len(w) > 2 && strings.Contains(text, w) {
				matched = append(matched, c)
				break
			}
		}
	}
	if len(matched) == 0 {
		return append([]Candidate(nil), MockCandidates...)
	}
	return matched
}
