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

func checkLinearization(t *testing.T, contract *ContractDefinition, want ...*ContractDefinition) {
	t.Helper()
	got := contract.LinearizedBaseContracts()
	if len(got) != len(want) {
		t.Fatalf("linearization of %s has %d contracts, want %d", contract.ContractName, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("linearization of %s: position %d is %s, want %s",
				contract.ContractName, i, got[i].ContractName, want[i].ContractName)
		}
	}
}

func TestLinearizeSingleInheritance(t *testing.T) {
	base := &ContractDefinition{ContractName: "Base"}
	derived := &ContractDefinition{ContractName: "Derived", BaseContracts: []*ContractDefinition{base}}
	program := &Program{Contracts: []*ContractDefinition{base, derived}}

	reporter := NewErrorReporter()
	if !program.Linearize(reporter) {
		t.Fatalf("linearization failed: %v", reporter.Errors())
	}
	checkLinearization(t, base, base)
	checkLinearization(t, derived, derived, base)
}

func TestLinearizeDiamond(t *testing.T) {
	o := &ContractDefinition{ContractName: "O"}
	a := &ContractDefinition{ContractName: "A", BaseContracts: []*ContractDefinition{o}}
	b := &ContractDefinition{ContractName: "B", BaseContracts: []*ContractDefinition{o}}
	// Bases are written most-base-first, as in Solidity source.
	c := &ContractDefinition{ContractName: "C", BaseContracts: []*ContractDefinition{a, b}}
	program := &Program{Contracts: []*ContractDefinition{o, a, b, c}}

	reporter := NewErrorReporter()
	if !program.Linearize(reporter) {
		t.Fatalf("linearization failed: %v", reporter.Errors())
	}
	checkLinearization(t, c, c, b, a, o)
}

func TestLinearizeImpossibleOrder(t *testing.T) {
	a := &ContractDefinition{ContractName: "A"}
	b := &ContractDefinition{ContractName: "B", BaseContracts: []*ContractDefinition{a}}
	// "is B, A" contradicts the base order required by B's own hierarchy.
	c := &ContractDefinition{ContractName: "C", BaseContracts: []*ContractDefinition{b, a}}
	program := &Program{Contracts: []*ContractDefinition{a, b, c}}

	reporter := NewErrorReporter()
	if program.Linearize(reporter) {
		t.Fatalf("expected linearization to fail")
	}
	if !reporter.HasErrors() {
		t.Errorf("expected a diagnostic for the impossible linearization")
	}
}

func TestDerivesFrom(t *testing.T) {
	base := &ContractDefinition{ContractName: "Base"}
	derived := &ContractDefinition{ContractName: "Derived", BaseContracts: []*ContractDefinition{base}}
	other := &ContractDefinition{ContractName: "Other"}
	program := &Program{Contracts: []*ContractDefinition{base, derived, other}}
	if !program.Linearize(NewErrorReporter()) {
		t.Fatal("linearization failed")
	}

	if !derived.DerivesFrom(base) {
		t.Errorf("Derived should derive from Base")
	}
	if !derived.DerivesFrom(derived) {
		t.Errorf("a contract derives from itself")
	}
	if base.DerivesFrom(derived) {
		t.Errorf("Base should not derive from Derived")
	}
	if other.DerivesFrom(base) {
		t.Errorf("Other should not derive from Base")
	}
}
