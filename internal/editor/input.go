/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import "goshapestudio/internal/geom"

// Input is one frame's pointer and keyboard snapshot, captured by the
// host before calling Update. Positions are in view coordinates. The
// zero value means no pointer over the canvas and no events.
type Input struct {
	// Hover is the pointer position, nil while the pointer is outside
	// the canvas.
	Hover *geom.Vec2
	// PrimaryPressed is the press edge of the primary button.
	PrimaryPressed bool
	// PrimaryClicked is the release edge of a primary press that did not
	// turn into a drag.
	PrimaryClicked bool
	// SecondaryPressed is the press edge of the secondary button.
	SecondaryPressed bool
	// DragStarted and DragReleased are the host's drag edges.
	DragStarted  bool
	DragReleased bool
	Mods         Modifiers
	// ScrollDelta is the wheel movement for this frame.
	ScrollDelta geom.Vec2
	// ZoomDelta is the multiplicative pinch factor, 1 (or 0) when idle.
	ZoomDelta float32
	// Keys are the chords pressed this frame.
	Keys []KeyChord
}

// Modifiers are the modifier keys held during the frame. Shift keeps the
// existing selection, ctrl adds points on click, alt inverts snapping.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

func (in Input) primaryDragStarted() bool {
	return in.DragStarted && in.PrimaryPressed
}

func (in Input) secondaryDragStarted() bool {
	return in.DragStarted && in.SecondaryPressed
}
