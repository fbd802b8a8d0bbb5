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

package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
)

func TestWrap(t *testing.T) {
	original := errors.New("permission denied")
	wrapped := pkgerrors.Wrap(original, "failed to read config file")

	assert.EqualError(t, wrapped, "failed to read config file: permission denied")
	assert.ErrorIs(t, wrapped, original)
	assert.NoError(t, pkgerrors.Wrap(nil, "context"))
}

func TestRetryable(t *testing.T) {
	assert.False(t, pkgerrors.Retryable(errors.New("x")))
	assert.False(t, pkgerrors.Retryable(&pkgerrors.ProviderError{StatusCode: 400}))
	assert.True(t, pkgerrors.Retryable(&pkgerrors.ProviderError{StatusCode: 429}))
	assert.True(t, pkgerrors.Retryable(pkgerrors.Wrap(&pkgerrors.ProviderError{StatusCode: 502}, "execute")))
}

type hintError struct{ visible bool }

func (hintError) Error() string         { return "hint" }
func (e hintError) IsUserVisible() bool { return e.visible }
func (hintError) UserMessage() string   { return "hint" }
func (hintError) Suggestion() string    { return "run mcpscout secrets set serper" }

func TestSuggestionFor(t *testing.T) {
	assert.Equal(t, "run mcpscout secrets set serper", pkgerrors.SuggestionFor(pkgerrors.Wrap(hintError{visible: true}, "search")))
	assert.Empty(t, pkgerrors.SuggestionFor(hintError{visible: false}))
	assert.Empty(t, pkgerrors.SuggestionFor(errors.New("x")))
}
