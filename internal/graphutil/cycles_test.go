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
	"testing"

	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
)

func freeFunction(name string, statements ...lang.Statement) *lang.FunctionDefinition {
	return &lang.FunctionDefinition{
		FunctionName: name,
		FunctionBody: &lang.Block{Statements: statements},
	}
}

func staticCall(target *lang.FunctionDefinition) lang.Statement {
	return &lang.ExpressionStatement{Call: &lang.Invocation{Declaration: target, Lookup: lang.Static}}
}

func buildCallGraph(t *testing.T, functions ...*lang.FunctionDefinition) CallGraph {
	t.Helper()
	program := &lang.Program{FreeFunctions: functions}
	if !program.Linearize(lang.NewErrorReporter()) {
		t.Fatal("linearization failed")
	}
	graph := cfg.NewCFG(cfg.BuildFlow)
	if !graph.ConstructFlow(program, lang.NewErrorReporter()) {
		t.Fatal("flow construction failed")
	}
	return NewCallGraph(graph)
}

func keyID(t *testing.T, cg CallGraph, callable lang.Callable) int64 {
	t.Helper()
	for id, node := range cg.IDMap {
		if node.Key.Callable == callable {
			return id
		}
	}
	t.Fatalf("no call graph node for %s", lang.CallableName(callable))
	return -1
}

func TestCallGraphEdges(t *testing.T) {
	callee := freeFunction("callee", &lang.ReturnStatement{})
	caller := freeFunction("caller", staticCall(callee), &lang.ReturnStatement{})
	cg := buildCallGraph(t, callee, caller)

	from := keyID(t, cg, caller)
	to := keyID(t, cg, callee)
	if !cg.HasEdgeFromTo(from, to) {
		t.Errorf("expected an edge from caller to callee")
	}
	if cg.HasEdgeFromTo(to, from) {
		t.Errorf("unexpected reverse edge")
	}
}

func TestRecursiveComponentsMutual(t *testing.T) {
	f := &lang.FunctionDefinition{FunctionName: "f"}
	g := &lang.FunctionDefinition{FunctionName: "g"}
	f.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(g)}}
	g.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(f)}}
	h := freeFunction("h", staticCall(f), &lang.ReturnStatement{})
	cg := buildCallGraph(t, f, g, h)

	components := cg.RecursiveComponents()
	if len(components) != 1 {
		t.Fatalf("got %d recursive components, want 1", len(components))
	}
	if len(components[0]) != 2 {
		t.Errorf("component has %d keys, want 2", len(components[0]))
	}
	for _, key := range components[0] {
		if key.Callable == h {
			t.Errorf("h is not part of the recursive cycle")
		}
	}
}

func TestRecursiveComponentsSelfLoop(t *testing.T) {
	r := &lang.FunctionDefinition{FunctionName: "r"}
	r.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(r)}}
	plain := freeFunction("plain", &lang.ReturnStatement{})
	cg := buildCallGraph(t, r, plain)

	components := cg.RecursiveComponents()
	if len(components) != 1 {
		t.Fatalf("got %d recursive components, want 1", len(components))
	}
	if len(components[0]) != 1 || components[0][0].Callable != r {
		t.Errorf("self-loop component should contain exactly r")
	}
}

func TestElementaryCycles(t *testing.T) {
	f := &lang.FunctionDefinition{FunctionName: "f"}
	g := &lang.FunctionDefinition{FunctionName: "g"}
	f.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(g)}}
	g.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(f)}}
	s := &lang.FunctionDefinition{FunctionName: "s"}
	s.FunctionBody = &lang.Block{Statements: []lang.Statement{staticCall(s)}}
	cg := buildCallGraph(t, f, g, s)

	cycles := cg.ElementaryCycles()
	if len(cycles) != 2 {
		t.Fatalf("got %d elementary cycles, want 2", len(cycles))
	}
	lengths := map[int]int{}
	for _, cycle := range cycles {
		if cycle[0] != cycle[len(cycle)-1] {
			t.Errorf("cycle must start and end at the same key")
		}
		lengths[len(cycle)]++
	}
	// One self-loop (s, s) and one two-cycle (f, g, f).
	if lengths[2] != 1 || lengths[3] != 1 {
		t.Errorf("unexpected cycle lengths: %v", lengths)
	}
}

func TestAcyclicGraphHasNoCycles(t *testing.T) {
	callee := freeFunction("callee", &lang.ReturnStatement{})
	caller := freeFunction("caller", staticCall(callee), &lang.ReturnStatement{})
	cg := buildCallGraph(t, callee, caller)

	if components := cg.RecursiveComponents(); len(components) != 0 {
		t.Errorf("acyclic graph has %d recursive components", len(components))
	}
	if cycles := cg.ElementaryCycles(); len(cycles) != 0 {
		t.Errorf("acyclic graph has %d elementary cycles", len(cycles))
	}
}
