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

package revertprune

import (
	"fmt"

	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/config"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
)

// Pruner computes a RevertState for every key of a control-flow registry and
// then rewrites the flow graphs: call sites whose settled callee never
// returns normally get a single edge to the caller's revert exit. The
// classification pass only reads the graphs; the rewriting pass is the sole
// mutator, so no traversal ever observes a partially rewritten graph.
type Pruner struct {
	cfg    *cfg.CFG
	logger *config.LogGroup
	states map[cfg.CallableKey]RevertState
}

// NewPruner returns a pruner over the given registry. The registry must be
// fully constructed; the pruner registers every key with state Unknown when
// Run is called. A nil logger defaults to the info level.
func NewPruner(graph *cfg.CFG, logger *config.LogGroup) *Pruner {
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	return &Pruner{
		cfg:    graph,
		logger: logger,
		states: map[cfg.CallableKey]RevertState{},
	}
}

// Run classifies every key and then prunes the flow graphs. The two passes
// are strictly sequential.
func (p *Pruner) Run() {
	for _, key := range p.cfg.Keys() {
		p.states[key] = Unknown
	}
	p.findRevertStates()
	p.modifyFunctionFlows()
}

// StateOf returns the settled state of a key. Querying a key that is not in
// the registry is a defect and panics.
func (p *Pruner) StateOf(key cfg.CallableKey) RevertState {
	state, ok := p.states[key]
	if !ok {
		panic(fmt.Sprintf("revertprune: no revert state for %s", key))
	}
	return state
}

// States returns a copy of the full classification.
func (p *Pruner) States() map[cfg.CallableKey]RevertState {
	out := make(map[cfg.CallableKey]RevertState, len(p.states))
	for key, state := range p.states {
		out[key] = state
	}
	return out
}

// findRevertStates runs the worklist fixed point. A search is interrupted
// whenever it encounters a call to a callable with yet unknown revert
// behavior; the wakeUp map records which searches to restart once that
// callable's state settles. Each key settles at most once, so the number of
// restarts is bounded by the number of keys and the fixed point terminates
// even on recursive call cycles. Keys of pure cycles with no other exit stay
// Unknown here and are handled conservatively by the pruning pass.
func (p *Pruner) findRevertStates() {
	pending := newWorklist(p.cfg.Keys())
	wakeUp := map[cfg.CallableKey][]cfg.CallableKey{}

	for !pending.empty() {
		item := pending.pop()
		if p.states[item] != Unknown {
			continue
		}

		foundExit := false
		foundUnknown := false
		foundPlaceholder := false

		flow := p.cfg.FlowOf(item.Callable, item.Contract)

		flow.ForEachReachable(func(node *cfg.Node, addChild func(*cfg.Node)) {
			if node == flow.Exit {
				foundExit = true
			}
			if node.IsPlaceholder {
				foundPlaceholder = true
				if node == flow.Exit {
					panic("revertprune: placeholder cannot be an exit node")
				}
			}
			node.CheckConsistency()

			var callable lang.Callable
			var modifier *lang.ModifierDefinition
			var function *lang.FunctionDefinition

			if node.ModifierInvocation != nil {
				if modifier = lang.ResolveModifierInvocation(node.ModifierInvocation, item.Contract); modifier != nil {
					callable = modifier
				}
			}
			if node.FunctionCall != nil {
				if function = lang.ResolveFunctionCall(node.FunctionCall, item.Contract); function != nil {
					callable = function
				}
			}

			if (modifier != nil && modifier.IsImplemented()) ||
				(function != nil && function.IsImplemented()) {
				calledKey := cfg.CallableKey{
					Contract: lang.FindScopeContract(callable, item.Contract),
					Callable: callable,
				}
				switch p.StateOf(calledKey) {
				case Unknown:
					// The path through this call is undetermined; restart
					// this search once the callee settles.
					wakeUp[calledKey] = append(wakeUp[calledKey], item)
					foundUnknown = true
					return
				case AllPathsRevert:
					// Nothing after an always-reverting call is reachable.
					return
				case HasNonRevertingPath:
				case ModifierRevertPassthrough:
					if _, isModifier := callable.(*lang.ModifierDefinition); !isModifier {
						panic(fmt.Sprintf("revertprune: passthrough state on function %s", lang.CallableName(callable)))
					}
				}
			}

			for _, exit := range node.Exits {
				addChild(exit)
			}
		})

		state := Unknown
		switch {
		case foundExit && foundPlaceholder:
			state = ModifierRevertPassthrough
		case foundExit:
			state = HasNonRevertingPath
		case !foundUnknown:
			state = AllPathsRevert
		}

		if state == Unknown {
			continue
		}
		if state == ModifierRevertPassthrough {
			if _, isModifier := item.Callable.(*lang.ModifierDefinition); !isModifier {
				panic(fmt.Sprintf("revertprune: passthrough state on function %s", item))
			}
		}
		p.states[item] = state
		p.logger.Debugf("revert state of %s: %s", item, state)

		// Restart all searches blocked on this key.
		for _, next := range wakeUp[item] {
			if p.states[next] == Unknown {
				pending.push(next)
			}
		}
		delete(wakeUp, item)
	}
}

// modifyFunctionFlows rewrites every flow: a call site whose settled callee
// is AllPathsRevert, or still Unknown after the fixed point, is detached from
// all its successors and wired straight to the caller's revert exit. Residual
// Unknown can only be caused by recursion and cannot be proven to reach a
// normal exit, so it is treated as reverting. The rewrite is idempotent.
func (p *Pruner) modifyFunctionFlows() {
	p.cfg.ForEachFlow(func(key cfg.CallableKey, flow *cfg.FunctionFlow) {
		flow.ForEachReachable(func(node *cfg.Node, addChild func(*cfg.Node)) {
			if call := node.FunctionCall; call != nil {
				resolved := lang.ResolveFunctionCall(call, key.Contract)
				if resolved != nil && resolved.IsImplemented() {
					calledKey := cfg.CallableKey{
						Contract: lang.FindScopeContract(resolved, key.Contract),
						Callable: resolved,
					}
					switch p.StateOf(calledKey) {
					case Unknown, AllPathsRevert:
						p.logger.Tracef("pruning call to %s in %s", lang.CallableName(resolved), key)
						for _, successor := range node.Exits {
							successor.RemoveEntry(node)
						}
						node.Exits = []*cfg.Node{flow.Revert}
						flow.Revert.Entries = append(flow.Revert.Entries, node)
						return
					}
				}
			}

			for _, exit := range node.Exits {
				addChild(exit)
			}
		})
	})
}

// worklist is a FIFO queue of keys with a membership set; pushing a queued
// key is a no-op.
type worklist struct {
	queue  []cfg.CallableKey
	queued map[cfg.CallableKey]bool
}

func newWorklist(keys []cfg.CallableKey) *worklist {
	w := &worklist{queued: make(map[cfg.CallableKey]bool, len(keys))}
	for _, key := range keys {
		w.push(key)
	}
	return w
}

func (w *worklist) empty() bool {
	return len(w.queue) == 0
}

func (w *worklist) push(key cfg.CallableKey) {
	if !w.queued[key] {
		w.queued[key] = true
		w.queue = append(w.queue, key)
	}
}

func (w *worklist) pop() cfg.CallableKey {
	key := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.queued, key)
	return key
}
