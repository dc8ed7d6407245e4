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

// solcfg: build the control-flow graphs of a contract program description,
// classify the revert behavior of every callable and prune dead
// continuations after always-reverting calls.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/ar-sol-tools/analysis"
	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/config"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
	"github.com/awslabs/ar-sol-tools/analysis/render"
	"github.com/awslabs/ar-sol-tools/analysis/revertprune"
	"github.com/awslabs/ar-sol-tools/internal/formatutil"
	"github.com/awslabs/ar-sol-tools/internal/funcutil"
	"github.com/awslabs/ar-sol-tools/internal/graphutil"
)

// flags
var (
	configFilename = ""
	jsonFlag       = false
	dotFlag        = false
	cyclesFlag     = false
)

func init() {
	flag.StringVar(&configFilename, "config", "", "configuration file")
	flag.BoolVar(&jsonFlag, "json", false, "output revert states as JSON")
	flag.BoolVar(&dotFlag, "dot", false, "write one dot file per pruned flow graph")
	flag.BoolVar(&cyclesFlag, "cycles", false, "report recursive call cycles")
}

const usage = `Analyze the control flow of a contract program description.

Usage:
  solcfg [options] program.yaml

Use the -help flag to display the options.
`

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := doMain(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "solcfg: %s\n", err)
		os.Exit(1)
	}
}

func doMain(programFile string) error {
	options := config.NewDefault()
	if configFilename != "" {
		loaded, err := config.Load(configFilename)
		if err != nil {
			return err
		}
		options = loaded
	}
	logger := config.NewLogGroup(options)

	reporter := lang.NewErrorReporter()
	program, err := analysis.LoadProgram(programFile, reporter)
	if err != nil {
		return err
	}

	result, err := analysis.RunControlFlow(program, reporter, logger)
	if err != nil {
		for _, diagnostic := range reporter.Errors() {
			logger.Errorf("%s", diagnostic.Error())
		}
		return err
	}

	if jsonFlag {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printStates(result)
	}

	if dotFlag || options.ReportDot {
		if err := writeDotReports(result, options, logger); err != nil {
			return err
		}
	}
	if cyclesFlag || options.ReportCycles {
		printCycles(result)
	}
	return nil
}

func printStates(result *analysis.ControlFlowResult) {
	byName := map[string]revertprune.RevertState{}
	for key, state := range result.States {
		byName[key.String()] = state
	}
	for _, name := range funcutil.SortedKeys(byName) {
		fmt.Printf("%-48s %s\n", name, colorize(byName[name]))
	}
}

func colorize(state revertprune.RevertState) string {
	switch state {
	case revertprune.AllPathsRevert:
		return formatutil.Red(state)
	case revertprune.HasNonRevertingPath:
		return formatutil.Green(state)
	case revertprune.ModifierRevertPassthrough:
		return formatutil.Yellow(state)
	default:
		return formatutil.Faint(state)
	}
}

func printJSON(result *analysis.ControlFlowResult) error {
	states := map[string]string{}
	for key, state := range result.States {
		states[key.String()] = state.String()
	}
	buf, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

func writeDotReports(result *analysis.ControlFlowResult, options *config.Config, logger *config.LogGroup) error {
	write := func(name string, data []byte) error {
		path := options.ReportPath(name)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Infof("Wrote %s", path)
		return nil
	}

	var failure error
	result.Graph.ForEachFlow(func(key cfg.CallableKey, flow *cfg.FunctionFlow) {
		if failure != nil {
			return
		}
		data, err := render.MarshalFlow(flow, key.String())
		if err != nil {
			failure = err
			return
		}
		failure = write("flow_"+fileName(key.String())+".dot", data)
	})
	if failure != nil {
		return failure
	}

	callGraph := graphutil.NewCallGraph(result.Graph)
	data, err := render.MarshalCallGraph(callGraph, "callgraph")
	if err != nil {
		return err
	}
	return write("callgraph.dot", data)
}

func fileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

func keyName(key cfg.CallableKey) string {
	return key.String()
}

func printCycles(result *analysis.ControlFlowResult) {
	callGraph := graphutil.NewCallGraph(result.Graph)
	cycles := callGraph.ElementaryCycles()
	if len(cycles) == 0 {
		fmt.Println("no recursive call cycles")
		return
	}
	for _, component := range callGraph.RecursiveComponents() {
		names := funcutil.Map(component, keyName)
		fmt.Printf("recursive group: %s\n", strings.Join(names, ", "))
	}
	for _, cycle := range cycles {
		names := funcutil.Map(cycle, keyName)
		fmt.Printf("cycle: %s\n", strings.Join(names, " -> "))
	}
}
