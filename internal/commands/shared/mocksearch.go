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
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/server"
)

// StartMockSearch serves the fixture candidate catalog on a loopback port
// until ctx is done and returns its base URL.
func StartMockSearch(ctx context.Context, logger *slog.Logger) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to start mock search: %w", err)
	}

	srv := server.New(ln.Addr().String(), search.NewMockServer(), time.Second, logger)
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			logger.Error("mock search stopped", slog.Any("error", err))
		}
	}()

	url := "http://" + ln.Addr().String()
	logger.Info("mock search listening", slog.String("url", url))
	return url, nil
}
