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

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/spf13/cobra"

	"github.com/cc11/frontend/internal/ccconfig"
)

// version is overridden at release-build time via -ldflags.
var version = "dev"

var log = logrus.New()

func init() {
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: "15:04:05",
		LogFormat:       "[%lvl%] %msg%\n",
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
}

// cliFlags backs every command-line option of spec.md section 6,
// before it is folded into an ccconfig.Config by resolveConfig.
type cliFlags struct {
	bitsPerByte int
	sizeBytes   int
	shortBytes  int
	intBytes    int
	longBytes   int
	longLongBytes int
	charSigned  string

	disableColor bool
	includeDirs  []string
	verbose      bool
}

func resolveConfig(f *cliFlags) (ccconfig.Config, error) {
	c := ccconfig.Default()
	c.BitsPerByte = f.bitsPerByte
	c.SizeBytes = f.sizeBytes
	c.ShortBytes = f.shortBytes
	c.IntBytes = f.intBytes
	c.LongBytes = f.longBytes
	c.LongLongBytes = f.longLongBytes
	c.DisableColor = f.disableColor

	switch f.charSigned {
	case "signed":
		c.CharSign = ccconfig.CharSigned
	case "unsigned":
		c.CharSign = ccconfig.CharUnsigned
	default:
		return c, fmt.Errorf("--char must be \"signed\" or \"unsigned\", got %q", f.charSigned)
	}

	paths, err := ccconfig.ExpandIncludePaths(f.includeDirs)
	if err != nil {
		return c, err
	}
	c.IncludePaths = paths

	if errs := c.Validate(); len(errs) > 0 {
		msg := "invalid configuration:"
		for _, e := range errs {
			msg += "\n  " + e.Error()
		}
		return c, fmt.Errorf("%s", msg)
	}
	return c, nil
}

// colorEnabled implements spec.md section 6's "color enabled by
// default; suppressed if stdout is not a terminal" rule.
func colorEnabled(f *cliFlags) bool {
	if f.disableColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "cc11 [files...]",
		Short:         "A C11 preprocessing front end",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("no input files given")
			}
			return runTranslate(args, cfg, colorEnabled(flags))
		},
	}

	root.PersistentFlags().IntVar(&flags.bitsPerByte, "bits-per-byte", 8, "bits per byte")
	root.PersistentFlags().IntVar(&flags.sizeBytes, "size-bytes", 8, "sizeof(size_t) in bytes")
	root.PersistentFlags().IntVar(&flags.shortBytes, "short-bytes", 2, "sizeof(short) in bytes")
	root.PersistentFlags().IntVar(&flags.intBytes, "int-bytes", 4, "sizeof(int) in bytes")
	root.PersistentFlags().IntVar(&flags.longBytes, "long-bytes", 8, "sizeof(long) in bytes")
	root.PersistentFlags().IntVar(&flags.longLongBytes, "long-long-bytes", 8, "sizeof(long long) in bytes")
	root.PersistentFlags().StringVar(&flags.charSigned, "char", "signed", "plain char signedness: signed|unsigned")
	root.PersistentFlags().BoolVar(&flags.disableColor, "disable-color", false, "disable colored diagnostic output")
	root.PersistentFlags().StringArrayVarP(&flags.includeDirs, "include", "I", nil, "include search path (glob-expanded)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newTestCmd(flags))
	root.AddCommand(newDumpConfigCmd(flags))
	root.AddCommand(newParseDeclaratorCmd(flags))
	root.AddCommand(newParseExprCmd(flags))
	root.AddCommand(newDebugScratchCmd(flags))

	return root
}

// Execute runs the cc11 command tree and returns the process exit
// code spec.md section 6 mandates: 0 unless an error-category
// diagnostic fired (or the command itself failed to run).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cc11:", err)
		return 1
	}
	return lastExitCode
}

// lastExitCode is set by runTranslate (and the debug sub-commands) so
// Execute can report a diagnostic-driven failure distinctly from a
// cobra usage error, both of which surface through error returns.
var lastExitCode int
