package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgui/internal/layout"
)

// StructureSummary describes one compiled structure.
type StructureSummary struct {
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ContentSlots int    `json:"content_slots"`
	Vertical     bool   `json:"vertical,omitempty"`
}

// NewLayoutCommand creates the layout command group.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Work with CUE structure definitions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <dir>",
		Short: "Compile the structures of a CUE package",
		Long: `Compile every structure in the CUE package in dir and report the first
error with its position.

Exit codes:
  0 - All structures compiled
  1 - A structure is invalid
  2 - Directory not readable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayoutValidate(rootOpts, args[0], cmd)
		},
	})
	return cmd
}

func runLayoutValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		_ = out.Error(ErrCodeNotFound, fmt.Sprintf("layout directory not found: %s", dir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("layout directory not found: %s", dir))
	}

	structures, err := layout.LoadDir(dir)
	if err != nil {
		var ce *layout.CompileError
		if errors.As(err, &ce) {
			details := map[string]any{"field": ce.Field}
			if ce.Pos.IsValid() {
				details["file"] = ce.Pos.Filename()
				details["line"] = ce.Pos.Line()
				details["column"] = ce.Pos.Column()
			}
			_ = out.Error(ErrCodeLayout, ce.Error(), details)
			return WrapExitError(ExitFailure, "invalid layout", err)
		}
		_ = out.Error(ErrCodeLayout, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid layout", err)
	}

	summaries := make([]StructureSummary, len(structures))
	var b strings.Builder
	for i, s := range structures {
		summaries[i] = StructureSummary{
			Name:         s.Name,
			Width:        s.Width,
			Height:       s.Height,
			ContentSlots: len(s.ContentSlots()),
			Vertical:     s.Vertical(),
		}
		fmt.Fprintf(&b, "✓ %s %dx%d", s.Name, s.Width, s.Height)
		if n := len(s.ContentSlots()); n > 0 {
			fmt.Fprintf(&b, " (%d content slots)", n)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d structure(s) valid\n", len(structures))
	return out.Success(summaries, b.String())
}
