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

package errors

import (
	"errors"
	"fmt"
)

// Wrap annotates err with message. Returns nil when err is nil.
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return errors.Wrap(err, "failed to read config file")
//	}
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// As is errors.As, so packages that import this one as "errors" keep the
// standard helper.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Classify returns the ErrorType of the first ErrorClassifier in err's
// chain, or "unknown". Used for metric labels.
func Classify(err error) string {
	var c ErrorClassifier
	if errors.As(err, &c) {
		return c.ErrorType()
	}
	return "unknown"
}

// Retryable reports whether the first ErrorClassifier in err's chain
// considers the failure transient. Unclassified errors are not retryable.
func Retryable(err error) bool {
	var c ErrorClassifier
	return errors.As(err, &c) && c.IsRetryable()
}

// SuggestionFor returns the suggestion of the first user-visible error in
// err's chain, or "".
func SuggestionFor(err error) string {
	var u UserVisibleError
	if errors.As(err, &u) && u.IsUserVisible() {
		return u.Suggestion()
	}
	return ""
}
