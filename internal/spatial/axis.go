/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spatial indexes control points and grid lines along one axis at
// a time, so proximity and snapping queries run on sorted keys instead of
// full tree walks.
package spatial

import (
	"math"
	"slices"
	"sort"
)

// AxisIndex maps float coordinates to the values located there, with the
// coordinates kept sorted. NaN coordinates are stored under a maximum
// sentinel so ordering stays total.
type AxisIndex[V comparable] struct {
	keys []float32
	vals map[float32][]V
}

func sanitizeKey(k float32) float32 {
	if math.IsNaN(float64(k)) {
		return math.MaxFloat32
	}
	return k
}

// Insert adds v at coordinate key. Values at the same coordinate keep
// insertion order; inserting the same value twice at one coordinate is a
// no-op.
func (a *AxisIndex[V]) Insert(key float32, v V) {
	key = sanitizeKey(key)
	if a.vals == nil {
		a.vals = make(map[float32][]V)
	}
	existing, ok := a.vals[key]
	if !ok {
		i := sort.Search(len(a.keys), func(i int) bool { return a.keys[i] >= key })
		a.keys = slices.Insert(a.keys, i, key)
	} else if slices.Contains(existing, v) {
		return
	}
	a.vals[key] = append(existing, v)
}

// Len returns the number of distinct coordinates.
func (a *AxisIndex[V]) Len() int { return len(a.keys) }

// Visit calls fn for every coordinate in [lo, hi], inclusive, in ascending
// order. fn returning true stops the visit.
func (a *AxisIndex[V]) Visit(lo, hi float32, fn func(key float32, vals []V) bool) {
	lo, hi = sanitizeKey(lo), sanitizeKey(hi)
	i := sort.Search(len(a.keys), func(i int) bool { return a.keys[i] >= lo })
	for ; i < len(a.keys) && a.keys[i] <= hi; i++ {
		if fn(a.keys[i], a.vals[a.keys[i]]) {
			return
		}
	}
}

// ClosestWithin finds the coordinate nearest to key within maxDist whose
// values are not all ignored, and returns that coordinate plus its
// non-ignored values. A coordinate below key wins an exact distance tie.
// With maxDist zero only the exact coordinate matches. ignore may be nil.
func (a *AxisIndex[V]) ClosestWithin(key, maxDist float32, ignore func(V) bool) (float32, []V, bool) {
	key = sanitizeKey(key)
	if maxDist < 0 {
		return 0, nil, false
	}

	usable := func(k float32) []V {
		vals := a.vals[k]
		if ignore == nil {
			return vals
		}
		var kept []V
		for _, v := range vals {
			if !ignore(v) {
				kept = append(kept, v)
			}
		}
		return kept
	}

	i := sort.Search(len(a.keys), func(i int) bool { return a.keys[i] >= key })

	var (
		beforeKey, afterKey   float32
		beforeVals, afterVals []V
	)
	for j := i - 1; j >= 0 && key-a.keys[j] <= maxDist; j-- {
		if vals := usable(a.keys[j]); len(vals) > 0 {
			beforeKey, beforeVals = a.keys[j], vals
			break
		}
	}
	for j := i; j < len(a.keys) && a.keys[j]-key <= maxDist; j++ {
		if vals := usable(a.keys[j]); len(vals) > 0 {
			afterKey, afterVals = a.keys[j], vals
			break
		}
	}

	switch {
	case beforeVals == nil && afterVals == nil:
		return 0, nil, false
	case afterVals == nil:
		return beforeKey, beforeVals, true
	case beforeVals == nil:
		return afterKey, afterVals, true
	case afterKey-key < key-beforeKey:
		return afterKey, afterVals, true
	default:
		return beforeKey, beforeVals, true
	}
}
