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

import "fmt"

// CompileError is a user-facing diagnostic accumulated during program
// validation.
type CompileError struct {
	Msg string
}

func (e CompileError) Error() string { return e.Msg }

// ErrorReporter is the shared diagnostic sink. Earlier phases append
// diagnostics to it; the control-flow analyses only observe whether it holds
// errors and never emit diagnostics themselves.
type ErrorReporter struct {
	errors []CompileError
}

// NewErrorReporter returns an empty diagnostic sink.
func NewErrorReporter() *ErrorReporter {
	return &ErrorReporter{}
}

// Errorf records a diagnostic. Arguments are handled in the manner of
// fmt.Sprintf.
func (r *ErrorReporter) Errorf(format string, v ...any) {
	r.errors = append(r.errors, CompileError{Msg: fmt.Sprintf(format, v...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (r *ErrorReporter) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns the recorded diagnostics in order.
func (r *ErrorReporter) Errors() []CompileError {
	return r.errors
}
