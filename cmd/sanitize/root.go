// Copyright 2025 walteh LLC
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
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sanitize/pkg/config"
	"github.com/walteh/sanitize/pkg/log"
	"github.com/walteh/sanitize/pkg/operation"
	"github.com/walteh/sanitize/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

const (
	exitOK     = 0
	exitConfig = 1
	exitIO     = 2
)

var errUsage = errors.Base("usage error")

// rootOpts holds the parsed command line
type rootOpts struct {
	extensions []string
	exclude    []string
	configFile string
	jobs       int
	dryRun     bool
	check      bool
	failFast   bool
	listRules  bool
	debug      bool

	logger *log.Logger
}

// newRootCmd creates the sanitize command
func newRootCmd(ro *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize <root-directory>",
		Short: "Rewrite non-ASCII text in documentation files to plain ASCII",
		Long: `sanitize walks a directory tree and rewrites every matching document so it
only contains printable ASCII, newlines, tabs and carriage returns. Known symbols,
typographic punctuation and mojibake are mapped to readable ASCII; anything else
is removed by the fallback rules.`,
		Example: `  sanitize docs
  sanitize . --ext .md --ext .txt --exclude 'vendor/**'
  sanitize docs --dry-run
  sanitize --list-rules -c sanitize.hcl`,
		Args:          cobra.MaximumNArgs(1),
		Version:       readBuildVersion().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          ro.execute,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.StringArrayVar(&ro.extensions, "ext", []string{walk.DefaultExtension}, "file suffix to sanitize (repeatable)")
	flags.StringArrayVar(&ro.exclude, "exclude", nil, "doublestar glob, relative to the root, to skip (repeatable)")
	flags.StringVarP(&ro.configFile, "config", "c", "", "config file path (.hcl, .toml, .yaml, .yml or .json)")
	flags.IntVarP(&ro.jobs, "jobs", "j", 1, "number of files processed at once")
	flags.BoolVar(&ro.dryRun, "dry-run", false, "report files that would change without writing them")
	flags.BoolVar(&ro.check, "check", false, "verify the rule table before touching any file")
	flags.BoolVar(&ro.failFast, "fail-fast", false, "stop at the first file that cannot be read or written")
	flags.BoolVar(&ro.listRules, "list-rules", false, "print the resolved rule table and exit")
	flags.BoolVarP(&ro.debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// userLogger returns the logger for this invocation, creating it on first use
func (ro *rootOpts) userLogger(stdout, stderr io.Writer) *log.Logger {
	if ro.logger == nil {
		level := zerolog.WarnLevel
		if ro.debug {
			level = zerolog.DebugLevel
		}
		ro.logger = log.New(stdout, stderr, level)
	}
	return ro.logger
}

// loadConfig reads the optional config file and applies flag overrides
func (ro *rootOpts) loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if ro.configFile != "" {
		loaded, err := config.Load(ctx, ro.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.Extensions = ro.extensions
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, ro.exclude...)
	}
	if flags.Changed("jobs") {
		cfg.Jobs = ro.jobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func (ro *rootOpts) execute(cmd *cobra.Command, args []string) error {
	logger := ro.userLogger(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := log.NewContext(cmd.Context(), logger)

	cfg, err := ro.loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	logger.Zerolog().Debug().
		Str("config", cfg.Location()).
		Strs("extensions", cfg.Extensions).
		Int("rules", len(cfg.Rules)).
		Msg("configuration resolved")

	table, err := cfg.Table()
	if err != nil {
		return errors.Errorf("building rule table: %w", err)
	}

	if ro.listRules {
		fmt.Fprintln(cmd.OutOrStdout(), renderRules(table.Rules()))
		return nil
	}

	if len(args) == 0 {
		return errors.Errorf("%w: missing <root-directory>", errUsage)
	}

	_, err = operation.Run(ctx, operation.Options{
		Root:      args[0],
		Filter:    cfg.Filter(),
		Table:     table,
		DryRun:    ro.dryRun,
		FailFast:  ro.failFast,
		SelfCheck: ro.check,
		Jobs:      cfg.Jobs,
	})
	return err
}

// exitCode maps a run error onto the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, operation.ErrIO):
		return exitIO
	default:
		return exitConfig
	}
}

// run executes the command line and returns the exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ro := &rootOpts{}
	cmd := newRootCmd(ro)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		ro.userLogger(stdout, stderr).Errorf("%v", err)
	}
	return exitCode(err)
}
