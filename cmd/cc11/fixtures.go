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

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/cc11/frontend/internal/ccconfig"
	"github.com/cc11/frontend/internal/convert"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

// runFixtureSuite implements `cc11 test`: every *.txtar file under
// root is a golden test of phase 3's lexer plus phases 5-7 (phases
// 1-2 and phase 4 are not run). Each archive holds
// an "input.c" file (the translation unit text) and a "diagnostics"
// file (the expected rendered output, color disabled, one line per
// diagnostic); a mismatch is reported but doesn't stop the rest of the
// suite, matching this repo's "report everything" diagnostic policy.
func runFixtureSuite(w io.Writer, root string, flags *cliFlags) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	paths, err := ccconfig.DiscoverTestFixtures(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "no .txtar fixtures found under %s\n", root)
		return nil
	}

	failed := 0
	for _, path := range paths {
		if err := runOneFixture(w, path, cfg); err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", path)
	}

	fmt.Fprintf(w, "%d/%d fixtures passed\n", len(paths)-failed, len(paths))
	if failed > 0 {
		lastExitCode = 1
		return fmt.Errorf("%d fixture(s) failed", failed)
	}
	return nil
}

func fixtureFile(ar *txtar.Archive, name string) ([]byte, bool) {
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

func runOneFixture(w io.Writer, path string, cfg ccconfig.Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ar := txtar.Parse(raw)

	input, ok := fixtureFile(ar, "input.c")
	if !ok {
		return fmt.Errorf("missing input.c section")
	}
	wantDiags, _ := fixtureFile(ar, "diagnostics")

	sink := &diag.Sink{}
	buf := source.NewRawBuffer(path, input)
	toks := make([]lexer.Token, 0, 256)
	for tok := range lexer.New(buf, sink).AllTokens() {
		toks = append(toks, tok)
	}
	_ = convert.Finalize(toks, sink)

	var gotBuf bytes.Buffer
	sink.Render(&gotBuf, false)

	got := strings.TrimRight(gotBuf.String(), "\n")
	want := strings.TrimRight(string(wantDiags), "\n")
	if got != want {
		return fmt.Errorf("diagnostics mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
	return nil
}
