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

// Package format renders transcripts and model output for the terminal.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

const (
	maxJSONSize     = 10 << 20
	maxMarkdownSize = 5 << 20
	wrapWidth       = 100
)

// csiPattern matches CSI escape sequences. Model output and search
// descriptions are untrusted and must not drive the terminal.
var csiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func sanitizeANSI(s string) string {
	return csiPattern.ReplaceAllString(s, "")
}

// checkSize rejects content larger than limit bytes.
func checkSize(content, kind string, limit int) error {
	if n := len(content); n > limit {
		return fmt.Errorf("output size (%d bytes) exceeds maximum for %s format (%d bytes)", n, kind, limit)
	}
	return nil
}

// FormatMarkdown renders content with glamour when styled is set, after
// stripping escape sequences. Rendering failures fall back to the plain
// sanitized text.
func FormatMarkdown(content string, styled bool) (string, error) {
	if err := checkSize(content, "markdown", maxMarkdownSize); err != nil {
		return "", err
	}
	plain := sanitizeANSI(content)
	if !styled {
		return plain, nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrapWidth))
	if err != nil {
		return plain, nil
	}
	out, err := r.Render(plain)
	if err != nil {
		return plain, nil
	}
	return strings.TrimRight(out, "\n"), nil
}

// FormatJSON re-indents content with two spaces and, when styled is set,
// highlights it with chroma.
func FormatJSON(content string, styled bool) (string, error) {
	if err := checkSize(content, "json", maxJSONSize); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(content), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	indented := buf.String()
	if !styled {
		return indented, nil
	}

	var hl bytes.Buffer
	if err := quick.Highlight(&hl, indented, "json", "terminal256", "monokai"); err != nil {
		return indented, nil
	}
	return hl.String(), nil
}
