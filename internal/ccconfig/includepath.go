// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ccconfig

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandIncludePaths resolves each `-I` pattern to a sorted, deduplicated
// set of directories, letting an include path be specified once as a
// doublestar glob (e.g. "vendor/**/include") instead of one `-I` per
// directory. A pattern with no glob metacharacters that names a plain
// directory passes through unchanged even if it doesn't yet exist,
// since an include path can legitimately be created later.
func ExpandIncludePaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) || !hasMeta(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				add(m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// DiscoverTestFixtures finds every txtar fixture under root for the
// run-tests sub-mode (spec.md section 6's `--test`), matched the same
// doublestar way as include paths so fixtures can be organized in
// nested directories.
func DiscoverTestFixtures(root string) ([]string, error) {
	return doublestar.FilepathGlob(filepath.Join(filepath.ToSlash(root), "**", "*.txtar"))
}
