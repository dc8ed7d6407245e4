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

// Package formatutil colors terminal output. Colors are applied only when
// standard output is a terminal.
package formatutil

import (
	"fmt"

	"golang.org/x/term"
)

var (
	Bold   = colorizer("\033[1m%s\033[0m")
	Faint  = colorizer("\033[2m%s\033[0m")
	Red    = colorizer("\033[1;31m%s\033[0m")
	Green  = colorizer("\033[1;32m%s\033[0m")
	Yellow = colorizer("\033[1;33m%s\033[0m")
	Cyan   = colorizer("\033[1;36m%s\033[0m")
)

func colorizer(escaped string) func(...any) string {
	return func(args ...any) string {
		if term.IsTerminal(1) {
			return fmt.Sprintf(escaped, fmt.Sprint(args...))
		}
		return fmt.Sprint(args...)
	}
}
