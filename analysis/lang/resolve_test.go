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

package lang

import "testing"

// buildHierarchy returns Base and Derived where both define f and the
// modifier m, Derived overriding each.
func buildHierarchy(t *testing.T) (base, derived *ContractDefinition) {
	t.Helper()
	base = &ContractDefinition{ContractName: "Base"}
	derived = &ContractDefinition{ContractName: "Derived", BaseContracts: []*ContractDefinition{base}}

	base.Functions = []*FunctionDefinition{{FunctionName: "f", Contract: base, FunctionBody: &Block{}}}
	derived.Functions = []*FunctionDefinition{{FunctionName: "f", Contract: derived, FunctionBody: &Block{}}}
	base.Modifiers = []*ModifierDefinition{{ModifierName: "m", Contract: base, ModifierBody: &Block{}}}
	derived.Modifiers = []*ModifierDefinition{{ModifierName: "m", Contract: derived, ModifierBody: &Block{}}}

	program := &Program{Contracts: []*ContractDefinition{base, derived}}
	if !program.Linearize(NewErrorReporter()) {
		t.Fatal("linearization failed")
	}
	return base, derived
}

func TestResolveFunctionCallVirtual(t *testing.T) {
	base, derived := buildHierarchy(t)
	invocation := &Invocation{Declaration: base.Functions[0], Lookup: Virtual}

	if got := ResolveFunctionCall(invocation, derived); got != derived.Functions[0] {
		t.Errorf("virtual lookup from Derived resolved to %s, want the override", CallableName(got))
	}
	if got := ResolveFunctionCall(invocation, base); got != base.Functions[0] {
		t.Errorf("virtual lookup from Base resolved to %s, want the base declaration", CallableName(got))
	}
}

func TestResolveFunctionCallStatic(t *testing.T) {
	base, derived := buildHierarchy(t)
	invocation := &Invocation{Declaration: base.Functions[0], Lookup: Static}

	if got := ResolveFunctionCall(invocation, derived); got != base.Functions[0] {
		t.Errorf("static lookup resolved to %s, want the named declaration", CallableName(got))
	}
}

func TestResolveFunctionCallNonFunction(t *testing.T) {
	base, _ := buildHierarchy(t)
	invocation := &Invocation{Declaration: base.Modifiers[0], Lookup: Virtual}
	if got := ResolveFunctionCall(invocation, base); got != nil {
		t.Errorf("resolving a modifier reference as a function call should yield nil, got %s", CallableName(got))
	}
}

func TestResolveModifierInvocation(t *testing.T) {
	base, derived := buildHierarchy(t)
	invocation := &Invocation{Declaration: base.Modifiers[0], Lookup: Virtual}

	if got := ResolveModifierInvocation(invocation, derived); got != derived.Modifiers[0] {
		t.Errorf("virtual modifier lookup from Derived resolved to %s, want the override", CallableName(got))
	}

	static := &Invocation{Declaration: base.Modifiers[0], Lookup: Static}
	if got := ResolveModifierInvocation(static, derived); got != base.Modifiers[0] {
		t.Errorf("static modifier lookup resolved to %s, want the named declaration", CallableName(got))
	}
}

func TestResolveFreeFunction(t *testing.T) {
	free := &FunctionDefinition{FunctionName: "free", FunctionBody: &Block{}}
	invocation := &Invocation{Declaration: free, Lookup: Virtual}
	if got := ResolveFunctionCall(invocation, nil); got != free {
		t.Errorf("free function should resolve to itself")
	}
}

func TestFindScopeContract(t *testing.T) {
	base, derived := buildHierarchy(t)
	library := &ContractDefinition{ContractName: "Lib"}
	library.Functions = []*FunctionDefinition{{FunctionName: "helper", Contract: library, FunctionBody: &Block{}}}
	program := &Program{Contracts: []*ContractDefinition{library}}
	if !program.Linearize(NewErrorReporter()) {
		t.Fatal("linearization failed")
	}

	// Calling a base function keeps the most derived contract.
	if got := FindScopeContract(base.Functions[0], derived); got != derived {
		t.Errorf("scope of Base.f called from Derived is %v, want Derived", got)
	}
	// A callable outside the caller's hierarchy keeps its own contract.
	if got := FindScopeContract(library.Functions[0], derived); got != library {
		t.Errorf("scope of Lib.helper called from Derived is %v, want Lib", got)
	}
	// Free functions have no scope contract.
	free := &FunctionDefinition{FunctionName: "free", FunctionBody: &Block{}}
	if got := FindScopeContract(free, derived); got != nil {
		t.Errorf("scope of a free function is %v, want nil", got)
	}
}
