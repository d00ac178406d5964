/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// Options configures editor behavior. Hosts usually start from
// DefaultOptions and override individual fields; a zero Options is not
// usable (zero scale bounds reject every zoom).
type Options struct {
	// ScrollFactor converts scroll wheel deltas into view translation,
	// per axis.
	ScrollFactor geom.Vec2
	// ZoomFactor is the exponent applied to the host's zoom delta before
	// it scales the view.
	ZoomFactor float32
	// MinScale and MaxScale bound the view scale. Zoom steps that would
	// leave the range are dropped.
	MinScale float32
	MaxScale float32
	// Stroke is used for every shape the editor inserts.
	Stroke shape.Stroke
	// SnapDistance is the snap search radius in view units.
	SnapDistance float32
	// SnapByDefault enables snapping when the alt modifier is not held.
	// Holding alt inverts it for the frame.
	SnapByDefault bool
	// HoverRadius is the pointer hit radius for control points, in view
	// units.
	HoverRadius float32
	// HistoryDepth caps the undo stack. 0 means unlimited.
	HistoryDepth int
	// Bindings maps key chords to editor operations.
	Bindings Bindings
}

// DefaultOptions returns the standard editor configuration.
func DefaultOptions() *Options {
	return &Options{
		ScrollFactor:  geom.V(0.1, 0.1),
		ZoomFactor:    0.2,
		MinScale:      0.01,
		MaxScale:      10,
		Stroke:        shape.Stroke{Width: 1, Color: shape.Black},
		SnapDistance:  5,
		SnapByDefault: true,
		HoverRadius:   5,
		Bindings:      DefaultBindings(),
	}
}

// KeyAction is an editor operation a key chord can trigger.
type KeyAction uint8

const (
	KeyActionNone KeyAction = iota
	// KeyActionAddPoint extends the selected shape at the pointer.
	KeyActionAddPoint
	// KeyActionDeletePoint removes the selected points.
	KeyActionDeletePoint
	// KeyActionUndo reverts the newest history entry.
	KeyActionUndo
)

// KeyChord is a platform-neutral key name plus held modifiers, as
// reported by the host. Key names are lower case ("z", "delete").
type KeyChord struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Bindings maps key chords to editor operations.
type Bindings map[KeyChord]KeyAction

// DefaultBindings binds ctrl+i to add point, delete to delete points and
// ctrl+z to undo.
func DefaultBindings() Bindings {
	return Bindings{
		{Key: "i", Ctrl: true}: KeyActionAddPoint,
		{Key: "delete"}:        KeyActionDeletePoint,
		{Key: "z", Ctrl: true}: KeyActionUndo,
	}
}

// Lookup returns the operation bound to the first bound chord in keys,
// or KeyActionNone.
func (b Bindings) Lookup(keys []KeyChord) KeyAction {
	for _, k := range keys {
		if a, ok := b[k]; ok && a != KeyActionNone {
			return a
		}
	}
	return KeyActionNone
}
