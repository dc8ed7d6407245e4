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

// Statement is the statement-level AST relevant to control flow. Expression
// detail beyond resolved calls is irrelevant to the analyses and is not
// modeled.
type Statement interface {
	isStatement()
}

// Block is a sequence of statements.
type Block struct {
	Statements []Statement
}

func (*Block) isStatement() {}

// IfStatement is a conditional with an optional else branch. The condition
// expression does not affect the flow shape and is not modeled.
type IfStatement struct {
	TrueBody  *Block
	FalseBody *Block // nil when there is no else branch
}

func (*IfStatement) isStatement() {}

// LoopStatement is any loop construct; control may skip the body or return to
// its head after each iteration.
type LoopStatement struct {
	Body *Block
}

func (*LoopStatement) isStatement() {}

// ReturnStatement transfers control to the function's normal exit.
type ReturnStatement struct{}

func (*ReturnStatement) isStatement() {}

// RevertStatement aborts execution: revert(), require failures, assert
// failures and throw all lower to this.
type RevertStatement struct{}

func (*RevertStatement) isStatement() {}

// PlaceholderStatement is the `_` statement in a modifier body, marking where
// the wrapped callable executes.
type PlaceholderStatement struct{}

func (*PlaceholderStatement) isStatement() {}

// ExpressionStatement is an expression evaluated for effect. Call is non-nil
// when the expression contains a resolved call to a function.
type ExpressionStatement struct {
	Call *Invocation
}

func (*ExpressionStatement) isStatement() {}
