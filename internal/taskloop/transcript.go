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

package taskloop

import (
	"sync"
	"time"
)

// EntryKind identifies what a transcript entry records.
type EntryKind string

const (
	KindObjective    EntryKind = "objective"
	KindTaskList     EntryKind = "task-list"
	KindNextTask     EntryKind = "next-task"
	KindTaskResult   EntryKind = "task-result"
	KindSearchResult EntryKind = "mcp-search-result"
	KindError        EntryKind = "error"
)

// Entry is one transcript event.
type Entry struct {
	Kind       EntryKind   `json:"type"`
	Content    string      `json:"content"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Transcript is an append-only event log. Readers take snapshots while a
// single run appends.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append records an entry and returns it with its timestamp set.
func (t *Transcript) Append(kind EntryKind, content string) Entry {
	return t.add(Entry{Kind: kind, Content: content})
}

// AppendSearchResult records a search answer together with its candidates.
func (t *Transcript) AppendSearchResult(content string, candidates []Candidate) Entry {
	return t.add(Entry{
		Kind:       KindSearchResult,
		Content:    content,
		Candidates: append([]Candidate(nil), candidates...),
	})
}

func (t *Transcript) add(e Entry) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = t.now()
	}
	t.entries = append(t.entries, e)
	return e
}

// Snapshot returns a copy of all entries in append order.
func (t *Transcript) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

// Since returns a copy of entries starting at index from.
func (t *Transcript) Since(from int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if from < 0 {
		from = 0
	}
	if from >= len(t.entries) {
		return nil
	}
	return append([]Entry(nil), t.entries[from:]...)
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
