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

package analysis

import (
	"fmt"
	"os"
	"strings"

	"github.com/awslabs/ar-sol-tools/analysis/lang"
	"gopkg.in/yaml.v3"
)

// LoadProgram reads a yaml program description and builds the decorated AST
// the analyses consume, including contract linearization. Malformed files
// and unresolvable references are hard errors; semantic problems such as
// impossible linearizations are reported to the diagnostic sink.
func LoadProgram(filename string, reporter *lang.ErrorReporter) (*lang.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read program file %s: %w", filename, err)
	}
	program, err := ParseProgram(data, reporter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return program, nil
}

// ParseProgram builds a program from a yaml description in memory.
func ParseProgram(data []byte, reporter *lang.ErrorReporter) (*lang.Program, error) {
	var spec programSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("could not parse program: %w", err)
	}
	l := newLoader()
	if err := l.declare(&spec); err != nil {
		return nil, err
	}
	if !l.program.Linearize(reporter) {
		// Bodies cannot be resolved against a broken hierarchy; the program
		// is returned as far as it was built, with diagnostics in the sink.
		return l.program, nil
	}
	if err := l.buildBodies(&spec); err != nil {
		return nil, err
	}
	return l.program, nil
}

// programSpec is the yaml schema of a program description. Bodies are
// statement lists; a callable without a body is declared but unimplemented.
type programSpec struct {
	Contracts     []contractSpec `yaml:"contracts"`
	FreeFunctions []functionSpec `yaml:"free-functions"`
}

type contractSpec struct {
	Name      string         `yaml:"name"`
	Bases     []string       `yaml:"bases"`
	Functions []functionSpec `yaml:"functions"`
	Modifiers []modifierSpec `yaml:"modifiers"`
}

type functionSpec struct {
	Name      string           `yaml:"name"`
	Modifiers []invocationSpec `yaml:"modifiers"`
	Body      *[]stmtSpec      `yaml:"body"`
}

type modifierSpec struct {
	Name string      `yaml:"name"`
	Body *[]stmtSpec `yaml:"body"`
}

// invocationSpec references a callable by name, optionally with an explicit
// lookup discipline. Unqualified names resolve through the scope contract's
// hierarchy; Contract.name references a specific declaration.
type invocationSpec struct {
	Name   string `yaml:"name"`
	Lookup string `yaml:"lookup"`
}

// stmtSpec is one statement: either a bare keyword (return, revert,
// placeholder) or a single-key mapping (call, if, loop).
type stmtSpec struct {
	Kind string
	Call *invocationSpec
	If   *ifSpec
	Loop []stmtSpec
}

type ifSpec struct {
	Then []stmtSpec `yaml:"then"`
	Else []stmtSpec `yaml:"else"`
}

// UnmarshalYAML accepts the two statement forms.
func (s *stmtSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var kind string
		if err := value.Decode(&kind); err != nil {
			return err
		}
		switch kind {
		case "return", "revert", "placeholder":
			s.Kind = kind
			return nil
		default:
			return fmt.Errorf("line %d: unknown statement %q", value.Line, kind)
		}
	case yaml.MappingNode:
		var compound struct {
			Call *invocationSpec `yaml:"call"`
			If   *ifSpec         `yaml:"if"`
			Loop []stmtSpec      `yaml:"loop"`
		}
		if err := value.Decode(&compound); err != nil {
			return err
		}
		s.Call, s.If, s.Loop = compound.Call, compound.If, compound.Loop
		if s.Call == nil && s.If == nil && s.Loop == nil {
			return fmt.Errorf("line %d: statement must be one of call, if, loop", value.Line)
		}
		return nil
	default:
		return fmt.Errorf("line %d: invalid statement", value.Line)
	}
}

type loader struct {
	program   *lang.Program
	contracts map[string]*lang.ContractDefinition
	functions map[string]*lang.FunctionDefinition
	modifiers map[string]*lang.ModifierDefinition
}

func newLoader() *loader {
	return &loader{
		program:   &lang.Program{},
		contracts: map[string]*lang.ContractDefinition{},
		functions: map[string]*lang.FunctionDefinition{},
		modifiers: map[string]*lang.ModifierDefinition{},
	}
}

// declare creates all contract, function and modifier shells and wires base
// contract references, so bodies can reference declarations in any order.
func (l *loader) declare(spec *programSpec) error {
	for i := range spec.Contracts {
		cs := &spec.Contracts[i]
		if _, dup := l.contracts[cs.Name]; dup || cs.Name == "" {
			return fmt.Errorf("duplicate or empty contract name %q", cs.Name)
		}
		contract := &lang.ContractDefinition{ContractName: cs.Name}
		l.contracts[cs.Name] = contract
		l.program.Contracts = append(l.program.Contracts, contract)

		for j := range cs.Functions {
			fs := &cs.Functions[j]
			function := &lang.FunctionDefinition{FunctionName: fs.Name, Contract: contract}
			qualified := cs.Name + "." + fs.Name
			if _, dup := l.functions[qualified]; dup {
				return fmt.Errorf("duplicate function %s", qualified)
			}
			l.functions[qualified] = function
			contract.Functions = append(contract.Functions, function)
		}
		for j := range cs.Modifiers {
			ms := &cs.Modifiers[j]
			modifier := &lang.ModifierDefinition{ModifierName: ms.Name, Contract: contract}
			qualified := cs.Name + "." + ms.Name
			if _, dup := l.modifiers[qualified]; dup {
				return fmt.Errorf("duplicate modifier %s", qualified)
			}
			l.modifiers[qualified] = modifier
			contract.Modifiers = append(contract.Modifiers, modifier)
		}
	}

	for i := range spec.FreeFunctions {
		fs := &spec.FreeFunctions[i]
		if _, dup := l.functions[fs.Name]; dup {
			return fmt.Errorf("duplicate free function %s", fs.Name)
		}
		function := &lang.FunctionDefinition{FunctionName: fs.Name}
		l.functions[fs.Name] = function
		l.program.FreeFunctions = append(l.program.FreeFunctions, function)
	}

	for i := range spec.Contracts {
		cs := &spec.Contracts[i]
		contract := l.contracts[cs.Name]
		for _, baseName := range cs.Bases {
			base, ok := l.contracts[baseName]
			if !ok {
				return fmt.Errorf("contract %s: unknown base contract %s", cs.Name, baseName)
			}
			contract.BaseContracts = append(contract.BaseContracts, base)
		}
	}
	return nil
}

func (l *loader) buildBodies(spec *programSpec) error {
	for i := range spec.Contracts {
		cs := &spec.Contracts[i]
		contract := l.contracts[cs.Name]
		for j := range cs.Functions {
			fs := &cs.Functions[j]
			if err := l.buildFunction(l.functions[cs.Name+"."+fs.Name], fs, contract); err != nil {
				return err
			}
		}
		for j := range cs.Modifiers {
			ms := &cs.Modifiers[j]
			modifier := l.modifiers[cs.Name+"."+ms.Name]
			if ms.Body == nil {
				continue
			}
			body, err := l.buildBlock(*ms.Body, contract)
			if err != nil {
				return fmt.Errorf("modifier %s.%s: %w", cs.Name, ms.Name, err)
			}
			modifier.ModifierBody = body
		}
	}
	for i := range spec.FreeFunctions {
		fs := &spec.FreeFunctions[i]
		if err := l.buildFunction(l.functions[fs.Name], fs, nil); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) buildFunction(function *lang.FunctionDefinition, fs *functionSpec, scope *lang.ContractDefinition) error {
	for _, ms := range fs.Modifiers {
		modifier, err := l.resolveModifier(ms.Name, scope)
		if err != nil {
			return fmt.Errorf("function %s: %w", lang.CallableName(function), err)
		}
		lookup, err := parseLookup(ms.Lookup, lang.Virtual)
		if err != nil {
			return fmt.Errorf("function %s: %w", lang.CallableName(function), err)
		}
		function.ModifierInvocations = append(function.ModifierInvocations, &lang.Invocation{
			Declaration: modifier,
			Lookup:      lookup,
		})
	}
	if fs.Body == nil {
		return nil
	}
	body, err := l.buildBlock(*fs.Body, scope)
	if err != nil {
		return fmt.Errorf("function %s: %w", lang.CallableName(function), err)
	}
	function.FunctionBody = body
	return nil
}

func (l *loader) buildBlock(specs []stmtSpec, scope *lang.ContractDefinition) (*lang.Block, error) {
	block := &lang.Block{}
	for i := range specs {
		statement, err := l.buildStatement(&specs[i], scope)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, statement)
	}
	return block, nil
}

func (l *loader) buildStatement(s *stmtSpec, scope *lang.ContractDefinition) (lang.Statement, error) {
	switch {
	case s.Kind == "return":
		return &lang.ReturnStatement{}, nil
	case s.Kind == "revert":
		return &lang.RevertStatement{}, nil
	case s.Kind == "placeholder":
		return &lang.PlaceholderStatement{}, nil
	case s.Call != nil:
		function, err := l.resolveFunction(s.Call.Name, scope)
		if err != nil {
			return nil, err
		}
		defaultLookup := lang.Virtual
		if function.IsFree() || strings.Contains(s.Call.Name, ".") {
			defaultLookup = lang.Static
		}
		lookup, err := parseLookup(s.Call.Lookup, defaultLookup)
		if err != nil {
			return nil, err
		}
		return &lang.ExpressionStatement{Call: &lang.Invocation{Declaration: function, Lookup: lookup}}, nil
	case s.If != nil:
		thenBody, err := l.buildBlock(s.If.Then, scope)
		if err != nil {
			return nil, err
		}
		statement := &lang.IfStatement{TrueBody: thenBody}
		if s.If.Else != nil {
			elseBody, err := l.buildBlock(s.If.Else, scope)
			if err != nil {
				return nil, err
			}
			statement.FalseBody = elseBody
		}
		return statement, nil
	case s.Loop != nil:
		body, err := l.buildBlock(s.Loop, scope)
		if err != nil {
			return nil, err
		}
		return &lang.LoopStatement{Body: body}, nil
	default:
		return nil, fmt.Errorf("invalid statement")
	}
}

// resolveFunction finds the declaration a call name references: a qualified
// Contract.name, a member visible through the scope contract's hierarchy, or
// a free function.
func (l *loader) resolveFunction(name string, scope *lang.ContractDefinition) (*lang.FunctionDefinition, error) {
	if strings.Contains(name, ".") {
		if function, ok := l.functions[name]; ok {
			return function, nil
		}
		return nil, fmt.Errorf("unknown function %s", name)
	}
	if scope != nil {
		for _, contract := range scope.LinearizedBaseContracts() {
			for _, function := range contract.Functions {
				if function.FunctionName == name {
					return function, nil
				}
			}
		}
	}
	if function, ok := l.functions[name]; ok && function.IsFree() {
		return function, nil
	}
	return nil, fmt.Errorf("unknown function %s", name)
}

func (l *loader) resolveModifier(name string, scope *lang.ContractDefinition) (*lang.ModifierDefinition, error) {
	if strings.Contains(name, ".") {
		if modifier, ok := l.modifiers[name]; ok {
			return modifier, nil
		}
		return nil, fmt.Errorf("unknown modifier %s", name)
	}
	if scope != nil {
		for _, contract := range scope.LinearizedBaseContracts() {
			for _, modifier := range contract.Modifiers {
				if modifier.ModifierName == name {
					return modifier, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unknown modifier %s", name)
}

func parseLookup(s string, fallback lang.VirtualLookup) (lang.VirtualLookup, error) {
	switch s {
	case "":
		return fallback, nil
	case "virtual":
		return lang.Virtual, nil
	case "static":
		return lang.Static, nil
	default:
		return 0, fmt.Errorf("invalid lookup %q", s)
	}
}
