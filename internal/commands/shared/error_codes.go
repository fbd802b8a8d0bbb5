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

// Error codes for structured JSON output
const (
	ErrorCodeInvalidInput  = "E001" // Missing or unusable input
	ErrorCodeInvalidConfig = "E201" // Invalid configuration
	ErrorCodeProvider      = "E101" // Provider failure
	ErrorCodeRunFailed     = "E103" // Loop run or search failed
	ErrorCodeCancelled     = "E104" // Interrupted
)

// ErrorCode maps an error to its JSON error code
func ErrorCode(err error) string {
	switch ExitCode(err) {
	case ExitInvalidInput:
		return ErrorCodeInvalidInput
	case ExitConfigError:
		return ErrorCodeInvalidConfig
	case ExitProviderError:
		return ErrorCodeProvider
	case ExitCancelled:
		return ErrorCodeCancelled
	default:
		return ErrorCodeRunFailed
	}
}
