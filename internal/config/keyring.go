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

package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name used for keyring entries.
const keyringService = "mcpscout"

// LookupAPIKey returns the API key stored in the OS keyring for provider,
// or "" when the keyring has no entry or is unavailable.
func LookupAPIKey(provider string) string {
	if provider == "" {
		return ""
	}
	value, err := keyring.Get(keyringService, provider)
	if err != nil {
		return ""
	}
	return value
}

// StoreAPIKey saves key for provider in the OS keyring.
func StoreAPIKey(provider, key string) error {
	if provider == "" || key == "" {
		return fmt.Errorf("provider and key must not be empty")
	}
	if err := keyring.Set(keyringService, provider, key); err != nil {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored key for provider. Deleting a missing
// entry is not an error.
func DeleteAPIKey(provider string) error {
	if err := keyring.Delete(keyringService, provider); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}
