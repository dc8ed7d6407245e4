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

// Package analysis contains the entry points for running the control-flow
// analyses on a program: flow-graph construction, revert classification and
// graph pruning.
package analysis

import (
	"fmt"
	"time"

	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/config"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
	"github.com/awslabs/ar-sol-tools/analysis/revertprune"
)

// ControlFlowResult is the outcome of a control-flow analysis run: the
// registry of pruned flow graphs and the settled revert classification.
type ControlFlowResult struct {
	// Graph is the registry of flow graphs, post-pruning.
	Graph *cfg.CFG

	// States maps every registry key to its settled revert state.
	States map[cfg.CallableKey]revertprune.RevertState
}

// RunControlFlow builds one flow graph per (contract-context, callable) key
// of the program, classifies the revert behavior of every key and prunes the
// graphs. It fails when the diagnostic sink holds errors accumulated by
// earlier phases. A nil logger defaults to the info level.
func RunControlFlow(program *lang.Program, reporter *lang.ErrorReporter, logger *config.LogGroup) (*ControlFlowResult, error) {
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	start := time.Now()

	graph := cfg.NewCFG(cfg.BuildFlow)
	if !graph.ConstructFlow(program, reporter) {
		return nil, fmt.Errorf("control-flow construction failed with %d diagnostic(s)", len(reporter.Errors()))
	}
	logger.Infof("Constructed %d flow graphs", len(graph.Keys()))

	pruner := revertprune.NewPruner(graph, logger)
	pruner.Run()
	logger.Infof("Control-flow analysis done (%.2f s)", time.Since(start).Seconds())

	return &ControlFlowResult{
		Graph:  graph,
		States: pruner.States(),
	}, nil
}
