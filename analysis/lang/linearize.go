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

// Linearize computes the C3 linearization of every contract in the program,
// most derived first. Base contracts are written most-base-first in source,
// so they are reversed before merging, following Solidity's convention.
// Linearization failures (inconsistent hierarchies) are reported to the sink;
// contracts whose hierarchy could not be linearized are left without a
// linearization and must not be analyzed further.
func (p *Program) Linearize(reporter *ErrorReporter) bool {
	ok := true
	for _, contract := range p.Contracts {
		if !linearize(contract, reporter) {
			ok = false
		}
	}
	return ok
}

func linearize(contract *ContractDefinition, reporter *ErrorReporter) bool {
	if contract.linearized != nil {
		return true
	}

	// Bases must be linearized first. Cyclic inheritance would already have
	// been rejected during name resolution, so recursion terminates.
	for _, base := range contract.BaseContracts {
		if !linearize(base, reporter) {
			return false
		}
	}

	// Solidity merges the bases in reverse source order.
	n := len(contract.BaseContracts)
	sequences := make([][]*ContractDefinition, 0, n+1)
	directBases := make([]*ContractDefinition, 0, n)
	for i := n - 1; i >= 0; i-- {
		base := contract.BaseContracts[i]
		sequences = append(sequences, base.LinearizedBaseContracts())
		directBases = append(directBases, base)
	}
	sequences = append(sequences, directBases)

	merged, ok := c3Merge(sequences)
	if !ok {
		reporter.Errorf("linearization of inheritance graph impossible for contract %s", contract.ContractName)
		return false
	}

	contract.linearized = append([]*ContractDefinition{contract}, merged...)
	return true
}

// c3Merge repeatedly picks a head that occurs in no tail of any sequence,
// removing it from all sequences. It fails when no such head exists.
func c3Merge(sequences [][]*ContractDefinition) ([]*ContractDefinition, bool) {
	remaining := make([][]*ContractDefinition, len(sequences))
	for i, seq := range sequences {
		remaining[i] = append([]*ContractDefinition{}, seq...)
	}

	var result []*ContractDefinition
	for {
		candidate := nextCandidate(remaining)
		if candidate == nil {
			for _, seq := range remaining {
				if len(seq) > 0 {
					return nil, false
				}
			}
			return result, true
		}
		result = append(result, candidate)
		for i, seq := range remaining {
			if len(seq) > 0 && seq[0] == candidate {
				remaining[i] = seq[1:]
			}
		}
	}
}

func nextCandidate(sequences [][]*ContractDefinition) *ContractDefinition {
	for _, seq := range sequences {
		if len(seq) == 0 {
			continue
		}
		head := seq[0]
		if !appearsInAnyTail(head, sequences) {
			return head
		}
	}
	return nil
}

func appearsInAnyTail(contract *ContractDefinition, sequences [][]*ContractDefinition) bool {
	for _, seq := range sequences {
		for i := 1; i < len(seq); i++ {
			if seq[i] == contract {
				return true
			}
		}
	}
	return false
}
