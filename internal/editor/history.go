/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import "goshapestudio/internal/action"

// HistoryEntry records one applied action: the inverse that reverts it
// and the forward action's name for menu labels.
type HistoryEntry struct {
	Inverse action.Action
	Name    string
}

// History is the undo stack. The zero value is an empty, unlimited
// stack. It is not safe for concurrent use; the editor mutates it from
// the frame loop only.
type History struct {
	entries []HistoryEntry
}

// Push records the inverse of an action that was just applied.
func (h *History) Push(inverse action.Action, name string) {
	h.entries = append(h.entries, HistoryEntry{Inverse: inverse, Name: name})
}

// Pop removes and returns the newest entry.
func (h *History) Pop() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	e := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return e, true
}

// Len returns the number of undoable entries.
func (h *History) Len() int { return len(h.entries) }

// LastName returns the name of the newest entry, for "Undo <name>" menu
// labels.
func (h *History) LastName() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1].Name, true
}

// Trim drops the oldest entries until at most max remain. 0 means
// unlimited and trims nothing.
func (h *History) Trim(max int) {
	if max <= 0 || len(h.entries) <= max {
		return
	}
	drop := len(h.entries) - max
	h.entries = append(h.entries[:0], h.entries[drop:]...)
}

// Clear empties the stack.
func (h *History) Clear() { h.entries = h.entries[:0] }
