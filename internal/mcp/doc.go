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


/*
Package mcp probes candidate MCP servers.

Search results name MCP servers by endpoint. Before wiring one into an agent
it is useful to know whether the endpoint answers at all, which protocol
version it speaks and which tools it exposes. A Client connects to a remote
server over streamable HTTP or SSE, performs the initialize handshake and
lists tools.

# Probing

	res, err := mcp.Probe(ctx, mcp.ClientConfig{
	    Endpoint:  "https://example.com/mcp",
	    Transport: mcp.TransportHTTP,
	})

Probe always closes the connection. Errors are *ProbeError values carrying a
suggestion for the CLI.

The stdio server that exposes mcpscout itself over MCP lives in the server
subpackage.
*/
package mcp
