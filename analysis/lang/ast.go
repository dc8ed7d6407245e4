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

// Package lang models the decorated Solidity AST consumed by the control-flow
// analyses: contract hierarchies with their linearized base orders, function
// and modifier declarations, statement bodies, and the resolved call and
// modifier-invocation references produced by the type checker.
package lang

// VirtualLookup is the dispatch discipline attached to a resolved call or
// modifier invocation by the type checker.
type VirtualLookup int

const (
	// Static binds the invocation to the statically named declaration,
	// regardless of the calling contract.
	Static VirtualLookup = iota

	// Virtual resolves the invocation to the most derived override visible
	// from the calling contract.
	Virtual
)

func (v VirtualLookup) String() string {
	switch v {
	case Static:
		return "static"
	case Virtual:
		return "virtual"
	default:
		return "invalid"
	}
}

// Callable is a declaration that has a body and can be the target of a call
// or modifier invocation: a function or a modifier.
type Callable interface {
	// Name returns the declared name of the callable.
	Name() string

	// DeclaringContract returns the contract the callable is defined in, or
	// nil for free functions.
	DeclaringContract() *ContractDefinition

	// IsImplemented reports whether the callable has a body.
	IsImplemented() bool

	// Body returns the callable's body, or nil when unimplemented.
	Body() *Block
}

// FunctionDefinition is a function declaration, either a member of a contract
// or a free function.
type FunctionDefinition struct {
	// FunctionName is the declared name.
	FunctionName string

	// Contract is the contract this function is directly defined in, nil for
	// free functions.
	Contract *ContractDefinition

	// FunctionBody is nil when the function is declared but not implemented.
	FunctionBody *Block

	// ModifierInvocations are the modifiers attached to this function, in
	// source order.
	ModifierInvocations []*Invocation
}

// Name returns the declared name of the function.
func (f *FunctionDefinition) Name() string { return f.FunctionName }

// DeclaringContract returns the contract the function is defined in, or nil
// for free functions.
func (f *FunctionDefinition) DeclaringContract() *ContractDefinition { return f.Contract }

// IsImplemented reports whether the function has a body.
func (f *FunctionDefinition) IsImplemented() bool { return f.FunctionBody != nil }

// Body returns the function body, nil when unimplemented.
func (f *FunctionDefinition) Body() *Block { return f.FunctionBody }

// IsFree reports whether the function is declared outside any contract.
func (f *FunctionDefinition) IsFree() bool { return f.Contract == nil }

// ModifierDefinition is a modifier declaration inside a contract. A modifier
// body contains at least one placeholder statement marking where the wrapped
// callable executes.
type ModifierDefinition struct {
	// ModifierName is the declared name.
	ModifierName string

	// Contract is the contract this modifier is directly defined in. Unlike
	// functions, modifiers are always contract members.
	Contract *ContractDefinition

	// ModifierBody is nil when the modifier is declared but not implemented.
	ModifierBody *Block
}

// Name returns the declared name of the modifier.
func (m *ModifierDefinition) Name() string { return m.ModifierName }

// DeclaringContract returns the contract the modifier is defined in.
func (m *ModifierDefinition) DeclaringContract() *ContractDefinition { return m.Contract }

// IsImplemented reports whether the modifier has a body.
func (m *ModifierDefinition) IsImplemented() bool { return m.ModifierBody != nil }

// Body returns the modifier body, nil when unimplemented.
func (m *ModifierDefinition) Body() *Block { return m.ModifierBody }

// Invocation is a resolved reference to a callable: a call expression or a
// modifier invocation, together with its required lookup discipline.
type Invocation struct {
	// Declaration is the declaration the reference was resolved to by the
	// type checker. For a Virtual lookup this may be overridden in a more
	// derived contract at analysis time.
	Declaration Callable

	// Lookup is the required dispatch discipline.
	Lookup VirtualLookup
}

// ContractDefinition is a contract, interface or library declaration with its
// inheritance annotation.
type ContractDefinition struct {
	// ContractName is the declared name.
	ContractName string

	// BaseContracts are the directly named base contracts, in source order.
	BaseContracts []*ContractDefinition

	// Functions are the functions directly defined in this contract, not
	// including inherited ones.
	Functions []*FunctionDefinition

	// Modifiers are the modifiers directly defined in this contract.
	Modifiers []*ModifierDefinition

	// linearized is the C3 linearization of this contract's hierarchy, most
	// derived first, starting with the contract itself. Populated by
	// Program.Linearize.
	linearized []*ContractDefinition
}

// Name returns the declared name of the contract.
func (c *ContractDefinition) Name() string { return c.ContractName }

// LinearizedBaseContracts returns the linearized inheritance chain, most
// derived first. The first element is always the contract itself. The program
// must have been linearized.
func (c *ContractDefinition) LinearizedBaseContracts() []*ContractDefinition {
	if c.linearized == nil {
		panic("lang: contract " + c.ContractName + " has not been linearized")
	}
	return c.linearized
}

// DerivesFrom reports whether base appears in this contract's linearized
// inheritance chain. A contract derives from itself.
func (c *ContractDefinition) DerivesFrom(base *ContractDefinition) bool {
	for _, b := range c.LinearizedBaseContracts() {
		if b == base {
			return true
		}
	}
	return false
}

// DefinedFunctions returns the functions directly defined in this contract.
func (c *ContractDefinition) DefinedFunctions() []*FunctionDefinition { return c.Functions }

// FunctionModifiers returns the modifiers directly defined in this contract.
func (c *ContractDefinition) FunctionModifiers() []*ModifierDefinition { return c.Modifiers }

// Program is a type-checked compilation unit: the top-level contracts and
// free functions the analysis operates on.
type Program struct {
	// Contracts in source order.
	Contracts []*ContractDefinition

	// FreeFunctions are the functions declared outside any contract.
	FreeFunctions []*FunctionDefinition
}

// CallableName renders a callable as Contract.name, or just name for free
// functions. Used in diagnostics and reports.
func CallableName(callable Callable) string {
	if contract := callable.DeclaringContract(); contract != nil {
		return contract.ContractName + "." + callable.Name()
	}
	return callable.Name()
}
