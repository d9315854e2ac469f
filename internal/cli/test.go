package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgui/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	GoldenDir string // compare traces with <dir>/<name>.golden
	Update    bool   // rewrite golden files instead of comparing
	Trace     bool   // print traces in text mode
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario|dir>...",
		Short: "Run GUI scenarios",
		Long: `Run YAML GUI scenarios and check their assertions. Directories are
searched for .yaml and .yml files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  invgui test ./scenarios
  invgui test ./scenarios --golden ./scenarios/golden
  invgui test ./scenarios --golden ./scenarios/golden --update`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden trace files")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print each trace")

	return cmd
}

func runTests(opts *TestOptions, args []string, cmd *cobra.Command) error {
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}

	files, err := findScenarioFiles(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "find scenarios", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	var text strings.Builder
	for _, file := range files {
		sr := runScenario(cmd.Context(), opts, file, &text)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	out := opts.formatter(cmd)
	if len(files) == 0 {
		text.WriteString("No scenarios found.\n")
	} else {
		fmt.Fprintf(&text, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if out.JSON() {
			_ = out.encode(CLIResponse{Status: "error", Data: result, Error: &CLIError{Code: ErrCodeTest, Message: msg}})
		} else {
			fmt.Fprint(out.Writer, text.String())
		}
		return NewExitError(ExitFailure, msg)
	}
	if len(files) > 0 {
		text.WriteString("✓ All scenarios passed\n")
	}
	return out.Success(result, text.String())
}

// findScenarioFiles expands directories into the YAML files they contain.
func findScenarioFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func runScenario(ctx context.Context, opts *TestOptions, file string, w *strings.Builder) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}
	fail := func(format string, args ...any) ScenarioResult {
		sr.Errors = append(sr.Errors, fmt.Sprintf(format, args...))
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return sr
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail("load: %v", err)
	}
	sr.Name = scenario.Name

	result, err := harness.Run(ctx, scenario,
		harness.WithLogger(opts.Logger),
		harness.WithMaxHops(opts.Config.MaxHops),
	)
	if err != nil {
		return fail("run: %v", err)
	}
	sr.Errors = append(sr.Errors, result.Errors...)

	trace, err := harness.MarshalTrace(scenario.Name, result)
	if err != nil {
		return fail("encode trace: %v", err)
	}
	if opts.Trace {
		w.Write(trace)
	}
	if opts.GoldenDir != "" {
		if err := checkGolden(opts, scenario.Name, trace); err != nil {
			return fail("%v", err)
		}
	}
	if len(sr.Errors) > 0 {
		return fail("%d assertion(s) failed", len(result.Errors))
	}

	sr.Pass = true
	fmt.Fprintf(w, "✓ %s\n", sr.Name)
	return sr
}

func checkGolden(opts *TestOptions, name string, trace []byte) error {
	path := filepath.Join(opts.GoldenDir, name+".golden")
	if opts.Update {
		if err := os.MkdirAll(opts.GoldenDir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, trace, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}
		return nil
	}
	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, trace) {
		return fmt.Errorf("trace differs from %s", path)
	}
	return nil
}
