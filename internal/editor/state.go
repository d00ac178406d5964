/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"goshapestudio/internal/constraint"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/snap"
	"goshapestudio/internal/spatial"
)

// State is everything the editor retains between frames for one shape
// tree: the view transform, the selection, the point constraints, the
// undo history and the snap guides. The host owns it alongside the tree
// and hands both to New every frame.
type State struct {
	Transform   geom.Transform
	Selection   shape.Selection
	Constraints constraint.Set
	History     History
	Snap        snap.Info

	interaction      interaction
	grid             *snap.Grid
	index            *spatial.Index
	lastHover        geom.Vec2
	lastContentHover geom.Vec2
}

// NewState returns a fresh state with the identity view.
func NewState() *State {
	return &State{Transform: geom.Identity()}
}

// setTransform replaces the view transform and invalidates the cached
// grid, which depends on it.
func (s *State) setTransform(t geom.Transform) {
	s.Transform = t
	s.grid = nil
}

// Dragging reports whether a pointer gesture is in progress.
func (s *State) Dragging() bool { return s.interaction != nil }
