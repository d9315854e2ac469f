package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
	"github.com/roach88/invgui/internal/storage"
)

// InventorySummary is the printable form of a decoded inventory.
type InventorySummary struct {
	ID    string        `json:"id"`
	Slots int           `json:"slots"`
	Items []SlotSummary `json:"items"`
}

// SlotSummary is one occupied slot.
type SlotSummary struct {
	Slot     int    `json:"slot"`
	Material string `json:"material"`
	Amount   int    `json:"amount"`
	Name     string `json:"name,omitempty"`
	MaxStack int    `json:"max_stack,omitempty"`
}

func summarize(v *inventory.Virtual) InventorySummary {
	s := InventorySummary{ID: v.UUID().String(), Slots: v.Size(), Items: []SlotSummary{}}
	for slot, st := range v.Items() {
		if item.Empty(st) {
			continue
		}
		s.Items = append(s.Items, SlotSummary{
			Slot:     slot,
			Material: st.Material,
			Amount:   st.Amount,
			Name:     st.Name,
			MaxStack: st.MaxStack,
		})
	}
	return s
}

func (s InventorySummary) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\nslots: %d\n", s.ID, s.Slots)
	for _, it := range s.Items {
		fmt.Fprintf(&b, "  [%d] %s×%d", it.Slot, it.Material, it.Amount)
		if it.Name != "" {
			fmt.Fprintf(&b, " %q", it.Name)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode a persisted inventory",
		Long: `Decode a persisted inventory file and print its contents.

The file may hold the raw serialisation (current or legacy format) or a
zstd-compressed one.

Exit codes:
  0 - Decoded
  1 - Malformed data
  2 - File not readable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		_ = out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read inventory file", err)
	}
	v, err := storage.Decode(data)
	if err != nil {
		_ = out.Error(ErrCodeDecode, err.Error(), map[string]string{"file": path})
		return WrapExitError(ExitFailure, "decode "+path, err)
	}
	opts.Logger.Debug("inventory decoded", "file", path, "bytes", len(data), "compressed", storage.IsCompressed(data))

	s := summarize(v)
	return out.Success(s, s.text())
}
