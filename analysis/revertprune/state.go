// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package revertprune classifies the revert behavior of every callable in a
// control-flow registry and simplifies the flow graphs based on the result:
// call sites into callees that can never return normally are redirected to
// the caller's revert exit.
package revertprune

// RevertState classifies the revert behavior of one (contract, callable)
// key. States form a small lattice with Unknown as bottom; once a key leaves
// Unknown its state is never reassigned.
type RevertState int

const (
	// Unknown means the classification has not settled yet. Keys that remain
	// Unknown after the fixed point belong to recursive cycles with no other
	// exit and are conservatively treated as reverting during pruning.
	Unknown RevertState = iota

	// AllPathsRevert means no execution path from entry reaches the normal
	// exit.
	AllPathsRevert

	// HasNonRevertingPath means at least one execution path reaches the
	// normal exit.
	HasNonRevertingPath

	// ModifierRevertPassthrough applies only to modifiers: the modifier's
	// own body reaches both its placeholder and the normal exit, so its
	// effective revert behavior is that of whatever callable it wraps.
	ModifierRevertPassthrough
)

func (s RevertState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case AllPathsRevert:
		return "all-paths-revert"
	case HasNonRevertingPath:
		return "has-non-reverting-path"
	case ModifierRevertPassthrough:
		return "modifier-revert-passthrough"
	default:
		return "invalid"
	}
}
