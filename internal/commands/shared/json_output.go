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

package shared

import (
	"encoding/json"
	"io"
	"os"

	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
)

// JSONResponse is the base envelope for all JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// JSONError represents a structured error with code, message and suggestion
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewJSONResponse returns the envelope for command.
func NewJSONResponse(command string, success bool) JSONResponse {
	return JSONResponse{Version: "1.0", Command: command, Success: success}
}

// jsonEmitted records that a command already wrote its JSON envelope, so
// HandleExitError does not write a second one.
var jsonEmitted bool

// emitJSON marshals a response as indented JSON to w
func emitJSON(w io.Writer, response interface{}) error {
	jsonEmitted = true
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// EmitJSON writes response to stdout
func EmitJSON(response interface{}) error {
	return emitJSON(os.Stdout, response)
}

// EmitJSONTo writes response to w
func EmitJSONTo(w io.Writer, response interface{}) error {
	return emitJSON(w, response)
}

// EmitJSONError writes a failed envelope for err to w
func EmitJSONError(w io.Writer, command string, err error) error {
	type errorResponse struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}

	jsonErr := JSONError{
		Code:       ErrorCode(err),
		Message:    err.Error(),
		Suggestion: pkgerrors.SuggestionFor(err),
	}

	return emitJSON(w, errorResponse{
		JSONResponse: NewJSONResponse(command, false),
		Errors:       []JSONError{jsonErr},
	})
}
