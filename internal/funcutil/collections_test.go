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

package funcutil

import (
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("got %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d is %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains([]int{1, 2, 3}, 2) {
		t.Errorf("2 should be contained")
	}
	if Contains([]int{1, 2, 3}, 4) {
		t.Errorf("4 should not be contained")
	}
	if Contains(nil, 1) {
		t.Errorf("nothing is contained in an empty slice")
	}
}

func TestUnion(t *testing.T) {
	a := map[string]bool{"x": true}
	b := map[string]bool{"y": true}
	u := Union(a, b)
	if !u["x"] || !u["y"] {
		t.Errorf("union is missing elements: %v", u)
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[int64]string{3: "c", 1: "a", 2: "b"})
	for i, want := range []int64{1, 2, 3} {
		if keys[i] != want {
			t.Errorf("position %d is %d, want %d", i, keys[i], want)
		}
	}
}
