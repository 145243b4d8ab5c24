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
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/cc11/frontend/internal/ccconfig"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/convert"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/pp"
	"github.com/cc11/frontend/internal/ppphase"
	"github.com/cc11/frontend/internal/source"
)

// fileResult is one input's finalized token stream, or the error that
// stopped translation before phase 7 could run.
type fileResult struct {
	name string
	toks []lexer.Token
	sink *diag.Sink
	err  error
}

// newFileOpener builds the FileOpener a Manager uses to resolve
// #include targets, [6.10.2]: quote-form searches fromDir first, then
// cfg.IncludePaths; angle-form searches only cfg.IncludePaths. Every
// opened buffer is put through Phase1/Phase2 exactly as a top-level
// translation unit would be, since an included file is itself source
// text subject to the same line-splicing and trigraph rules.
func newFileOpener(cfg ccconfig.Config, sink *diag.Sink) pp.FileOpener {
	return func(name string, system bool, fromDir string) (*source.Buffer, error) {
		var candidates []string
		if !system && fromDir != "" {
			candidates = append(candidates, filepath.Join(fromDir, name))
		}
		for _, dir := range cfg.IncludePaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}

		for _, path := range candidates {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			buf := source.NewRawBuffer(path, data)
			buf = ppphase.Phase1(buf, sink)
			buf = ppphase.Phase2(buf, sink)
			return buf, nil
		}
		return nil, fmt.Errorf("cannot find include file %q", name)
	}
}

// translateOne runs one source file through phases 1-7: the buffer
// machinery of internal/source, phase 1/2 of internal/ppphase, the
// lexing-plus-directive-processing Manager of internal/pp (phases 3-4),
// and finally internal/convert (phases 5-7).
func translateOne(name string, cfg ccconfig.Config) fileResult {
	sink := &diag.Sink{}
	result := fileResult{name: name, sink: sink}
	log.Debugf("translating %s", name)

	data, err := os.ReadFile(name)
	if err != nil {
		result.err = err
		return result
	}

	buf := source.NewRawBuffer(name, data)
	buf = ppphase.Phase1(buf, sink)
	buf = ppphase.Phase2(buf, sink)

	open := newFileOpener(cfg, sink)
	mgr := pp.NewManager(buf, sink, open, cfg.IncludePaths, currentDate())
	toks := mgr.Run()
	log.Debugf("%s: %d tokens after phase 4", name, len(toks))

	result.toks = convert.Finalize(toks, sink)
	log.Debugf("%s: %d tokens after phase 7, %d diagnostics", name, len(result.toks), len(sink.All()))
	return result
}

// currentDate supplies __DATE__/__TIME__'s value. spec.md section 5's
// reproducibility requirement is honored by a constant date (Jan  1
// 1970, 00:00:00); the system clock is never read, so every file in
// every invocation agrees.
var processDate = pp.Date{Month: 1, Day: 1, Year: 1970}

func currentDate() pp.Date { return processDate }

// runTranslate drives one cc11 invocation over every named file,
// concurrently (spec.md section 5: "translation units are
// independent; nothing may be shared across the manager instances
// processing them"), each with its own exclusively-owned pp.Manager.
// Diagnostics are collected per file and rendered in the order files
// were given, after every file has finished, so one slow file can't
// interleave its output with another's.
func runTranslate(files []string, cfg ccconfig.Config, color bool) error {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			results[i] = translateOne(name, cfg)
			return nil
		})
	}
	_ = g.Wait() // translateOne never returns an error through g; per-file errors live in fileResult

	failed := collections.FilterSlice(results, func(r fileResult) bool { return r.err != nil })

	var merr *multierror.Error
	for _, r := range failed {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.name, r.err))
	}

	hasErrors := len(failed) > 0
	for _, r := range collections.FilterSlice(results, func(r fileResult) bool { return r.err == nil }) {
		r.sink.Render(os.Stderr, color)
		if r.sink.HasErrors() {
			hasErrors = true
		}
	}

	if hasErrors {
		lastExitCode = 1
	}
	if merr != nil {
		return merr
	}
	return nil
}
