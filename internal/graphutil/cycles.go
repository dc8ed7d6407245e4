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

package graphutil

import (
	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/internal/funcutil"
	"github.com/yourbasic/graph"
)

// RecursiveComponents returns the strongly connected components of the call
// graph that contain recursion: components of two or more keys, and single
// keys that call themselves. These are exactly the keys whose revert state
// can remain Unknown after the classification fixed point.
func (cg CallGraph) RecursiveComponents() [][]cfg.CallableKey {
	var components [][]cfg.CallableKey
	for _, component := range graph.StrongComponents(cg) {
		if len(component) == 1 {
			id := int64(component[0])
			if _, ok := cg.IDMap[id]; !ok || !cg.Edges[id][id] {
				continue
			}
		}
		keys := make([]cfg.CallableKey, 0, len(component))
		for _, v := range component {
			if node, ok := cg.IDMap[int64(v)]; ok {
				keys = append(keys, node.Key)
			}
		}
		if len(keys) > 0 {
			components = append(components, keys)
		}
	}
	return components
}

// ElementaryCycles finds all elementary cycles of the call graph using
// Donald B. Johnson's algorithm ("Finding All The Elementary Circuits of a
// Directed Graph", 1975). Each cycle is returned as a key sequence whose
// first and last elements are equal.
func (cg CallGraph) ElementaryCycles() [][]cfg.CallableKey {
	var cycles [][]int64
	for i, root := range cg.Keys {
		sub := cg.subgraph(cg.Keys[i:])
		if !sub.inNontrivialComponent(root) {
			continue
		}
		s := &cycleSearch{
			sub:     sub,
			blocked: map[int64]bool{},
			blist:   map[int64]map[int64]bool{},
		}
		s.circuit(root, root)
		cycles = append(cycles, s.cycles...)
	}

	result := make([][]cfg.CallableKey, 0, len(cycles))
	for _, cycle := range cycles {
		result = append(result, funcutil.Map(cycle, func(id int64) cfg.CallableKey {
			return cg.IDMap[id].Key
		}))
	}
	return result
}

// inNontrivialComponent reports whether the node sits in a strongly connected
// component that contains a cycle, which gates the circuit search the way
// Johnson's algorithm prescribes.
func (cg CallGraph) inNontrivialComponent(id int64) bool {
	if cg.Edges[id][id] {
		return true
	}
	for _, component := range graph.StrongComponents(cg) {
		if len(component) < 2 {
			continue
		}
		for _, v := range component {
			if int64(v) == id {
				return true
			}
		}
	}
	return false
}

type cycleSearch struct {
	sub     CallGraph
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *cycleSearch) circuit(v, root int64) bool {
	found := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true

	for _, w := range funcutil.SortedKeys(s.sub.Edges[v]) {
		if w == root {
			cycle := make([]int64, len(s.stack), len(s.stack)+1)
			copy(cycle, s.stack)
			s.cycles = append(s.cycles, append(cycle, w))
			found = true
		} else if !s.blocked[w] {
			if s.circuit(w, root) {
				found = true
			}
		}
	}

	if found {
		s.unblock(v)
	} else {
		for _, w := range funcutil.SortedKeys(s.sub.Edges[v]) {
			if s.blist[w] == nil {
				s.blist[w] = map[int64]bool{}
			}
			s.blist[w][v] = true
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	return found
}

func (s *cycleSearch) unblock(v int64) {
	s.blocked[v] = false
	for w := range s.blist[v] {
		if s.blocked[w] {
			s.unblock(w)
		}
	}
	delete(s.blist, v)
}
