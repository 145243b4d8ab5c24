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
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/cc11/frontend/internal/ccconfig"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/convert"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/parse"
	"github.com/cc11/frontend/internal/source"
)

// lexScratch runs name/text through phase 3's lexer directly on the
// in-memory buffer, then phases 5-7. Phases 1-2 and phase 4's
// preprocessing, which translateOne runs on a real file, are not run.
func lexScratch(name, text string, sink *diag.Sink) []lexer.Token {
	buf := source.NewRawBuffer(name, []byte(text))
	toks := make([]lexer.Token, 0, 64)
	for tok := range lexer.New(buf, sink).AllTokens() {
		toks = append(toks, tok)
	}
	return convert.Finalize(toks, sink)
}

func kindName(k parse.Kind) string {
	switch k {
	case parse.Leaf:
		return "Leaf"
	case parse.Unary:
		return "Unary"
	case parse.Paren:
		return "Paren"
	case parse.Binary:
		return "Binary"
	case parse.Ternary:
		return "Ternary"
	case parse.Call:
		return "Call"
	case parse.AbstractPlaceholder:
		return "AbstractPlaceholder"
	case parse.DeclaratorArray:
		return "DeclaratorArray"
	case parse.DeclaratorPointer:
		return "DeclaratorPointer"
	case parse.DeclaratorFunction:
		return "DeclaratorFunction"
	case parse.DeclaratorSpecifier:
		return "DeclaratorSpecifier"
	case parse.Tag:
		return "Tag"
	case parse.Cast:
		return "Cast"
	default:
		return "?"
	}
}

// dumpNode prints n as an indented tree, the way a -ast-dump flag of a
// real compiler front end would, for the `parse-expr`/`parse-declarator`
// subcommands.
func dumpNode(w io.Writer, n *parse.Node, depth int) {
	if n == nil {
		fmt.Fprintf(w, "%s<nil>\n", strings.Repeat("  ", depth))
		return
	}
	extra := ""
	if n.TagName != "" {
		extra += fmt.Sprintf(" tag=%s", n.TagName)
	}
	if n.Postfix {
		extra += " postfix"
	}
	fmt.Fprintf(w, "%s%s %q%s\n", strings.Repeat("  ", depth), kindName(n.Kind), n.Tok.Spelling, extra)
	for _, c := range n.Children {
		dumpNode(w, c, depth+1)
	}
}

func newParseExprCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-expr EXPR",
		Short: "Parse EXPR as a C expression and dump its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			sink := &diag.Sink{}
			toks := lexScratch("<parse-expr>", args[0], sink)
			n := parse.ParseExpression(toks, sink, nil)
			dumpNode(cmd.OutOrStdout(), n, 0)
			sink.Render(cmd.ErrOrStderr(), colorEnabled(flags) && !cfg.DisableColor)
			if sink.HasErrors() {
				lastExitCode = 1
			}
			return nil
		},
	}
}

func newParseDeclaratorCmd(flags *cliFlags) *cobra.Command {
	var typedefs []string
	cmd := &cobra.Command{
		Use:   "parse-declarator DECL",
		Short: "Parse DECL as a C declarator and dump its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := resolveConfig(flags); err != nil {
				return err
			}
			sink := &diag.Sink{}
			toks := lexScratch("<parse-declarator>", args[0], sink)
			n := parse.ParseDeclarator(toks, sink, collections.ToSet(typedefs))
			dumpNode(cmd.OutOrStdout(), n, 0)
			sink.Render(cmd.ErrOrStderr(), colorEnabled(flags))
			if sink.HasErrors() {
				lastExitCode = 1
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&typedefs, "typedef-name", nil, "name to treat as a bound typedef while parsing")
	return cmd
}

func newDumpConfigCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump-config",
		Short: "Print the resolved configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg ccconfig.Config) {
	sign := "signed"
	if cfg.CharSign == ccconfig.CharUnsigned {
		sign = "unsigned"
	}
	fmt.Fprintf(w, "bits-per-byte:   %d\n", cfg.BitsPerByte)
	fmt.Fprintf(w, "size-bytes:      %d\n", cfg.SizeBytes)
	fmt.Fprintf(w, "short-bytes:     %d\n", cfg.ShortBytes)
	fmt.Fprintf(w, "int-bytes:       %d\n", cfg.IntBytes)
	fmt.Fprintf(w, "long-bytes:      %d\n", cfg.LongBytes)
	fmt.Fprintf(w, "long-long-bytes: %d\n", cfg.LongLongBytes)
	fmt.Fprintf(w, "char:            %s\n", sign)
	fmt.Fprintf(w, "disable-color:   %v\n", cfg.DisableColor)
	fmt.Fprintf(w, "include-paths:   %v\n", cfg.IncludePaths)
}

func newTestCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test [root]",
		Short: "Run the txtar-format fixture suite under root (default .)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runFixtureSuite(cmd.OutOrStdout(), root, flags)
		},
	}
}

// newDebugScratchCmd implements the `debug-scratch` subcommand: an interactive
// readline REPL over one expression or declarator per line, for
// exploratory grammar debugging without re-invoking the binary.
func newDebugScratchCmd(flags *cliFlags) *cobra.Command {
	var asDeclarator bool
	cmd := &cobra.Command{
		Use:   "debug-scratch",
		Short: "Interactive REPL: parse one expression/declarator per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "cc11> ",
				HistoryFile: "",
				Stdin:       os.Stdin,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err != nil { // io.EOF or readline.ErrInterrupt
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				sink := &diag.Sink{}
				toks := lexScratch("<debug-scratch>", line, sink)
				var n *parse.Node
				if asDeclarator {
					n = parse.ParseDeclarator(toks, sink, nil)
				} else {
					n = parse.ParseExpression(toks, sink, nil)
				}
				dumpNode(rl.Stdout(), n, 0)
				sink.Render(rl.Stderr(), colorEnabled(flags))
			}
		},
	}
	cmd.Flags().BoolVar(&asDeclarator, "declarator", false, "parse each line as a declarator instead of an expression")
	return cmd
}
