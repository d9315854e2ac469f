package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/invgui/internal/storage"
)

// NewDBCommand creates the db command group.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the inventory database",
	}
	cmd.AddCommand(newDBListCommand(rootOpts))
	cmd.AddCommand(newDBExportCommand(rootOpts))
	cmd.AddCommand(newDBImportCommand(rootOpts))
	cmd.AddCommand(newDBCreateCommand(rootOpts))
	cmd.AddCommand(newDBRemoveCommand(rootOpts))
	return cmd
}

// openManager opens the configured database. The returned close function
// must be called when done.
func openManager(opts *RootOptions) (*storage.Manager, func(), error) {
	st, err := storage.Open(opts.Config.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open database", err)
	}
	m := storage.NewManager(st,
		storage.WithLogger(opts.Logger),
		storage.WithDefaultCapacity(opts.Config.DefaultCapacity),
	)
	return m, func() { st.Close() }, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, WrapExitError(ExitCommandError, "invalid inventory id", err)
	}
	return id, nil
}

// RecordSummary is the printable form of a storage.Record.
type RecordSummary struct {
	ID       string `json:"id"`
	Slots    int    `json:"slots"`
	Bytes    int    `json:"bytes"`
	Revision int64  `json:"revision"`
}

func newDBListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored inventories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := openManager(opts)
			if err != nil {
				return err
			}
			defer done()

			records, err := m.Store().List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list inventories", err)
			}
			rows := make([]RecordSummary, len(records))
			var b strings.Builder
			for i, r := range records {
				rows[i] = RecordSummary{ID: r.ID.String(), Slots: r.Slots, Bytes: r.Bytes, Revision: r.Revision}
				fmt.Fprintf(&b, "%s  slots=%d  bytes=%d  rev=%d\n", r.ID, r.Slots, r.Bytes, r.Revision)
			}
			if len(records) == 0 {
				b.WriteString("No inventories stored.\n")
			}
			return opts.formatter(cmd).Success(rows, b.String())
		},
	}
}

func newDBExportCommand(opts *RootOptions) *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write a stored inventory to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, done, err := openManager(opts)
			if err != nil {
				return err
			}
			defer done()

			v, err := m.Get(cmd.Context(), id)
			if errors.Is(err, storage.ErrNotFound) {
				_ = opts.formatter(cmd).Error(ErrCodeNotFound, err.Error(), nil)
				return WrapExitError(ExitFailure, "export", err)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "export", err)
			}

			var data []byte
			if compress {
				data, err = storage.Encode(v)
			} else {
				data, err = v.MarshalBinary()
			}
			if err != nil {
				return WrapExitError(ExitFailure, "encode inventory", err)
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write file", err)
			}
			return opts.formatter(cmd).Success(
				map[string]any{"id": id.String(), "file": args[1], "bytes": len(data)},
				fmt.Sprintf("exported %s to %s (%d bytes)\n", id, args[1], len(data)),
			)
		},
	}
	cmd.Flags().BoolVar(&compress, "zstd", false, "compress the file with zstd")
	return cmd
}

func newDBImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Store inventories read from files",
		Long: `Read persisted inventories (raw or zstd) and store them under their own
ids, replacing existing rows.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := openManager(opts)
			if err != nil {
				return err
			}
			defer done()

			var ids []string
			var b strings.Builder
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "read "+path, err)
				}
				v, err := storage.Decode(data)
				if err != nil {
					_ = opts.formatter(cmd).Error(ErrCodeDecode, err.Error(), map[string]string{"file": path})
					return WrapExitError(ExitFailure, "decode "+path, err)
				}
				m.Add(v)
				ids = append(ids, v.UUID().String())
				fmt.Fprintf(&b, "imported %s (%d slots) from %s\n", v.UUID(), v.Size(), path)
			}
			if err := m.SaveAll(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "save inventories", err)
			}
			return opts.formatter(cmd).Success(map[string]any{"imported": ids}, b.String())
		},
	}
}

func newDBCreateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <id> <size>",
		Short: "Create an empty inventory, or grow an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			size, err := strconv.Atoi(args[1])
			if err != nil || size < 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid size %q", args[1]))
			}
			m, done, err := openManager(opts)
			if err != nil {
				return err
			}
			defer done()

			v, err := m.GetOrCreate(cmd.Context(), id, size)
			if err != nil {
				return WrapExitError(ExitFailure, "create inventory", err)
			}
			if err := m.SaveAll(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "save inventory", err)
			}
			return opts.formatter(cmd).Success(
				map[string]any{"id": v.UUID().String(), "slots": v.Size()},
				fmt.Sprintf("%s has %d slots\n", v.UUID(), v.Size()),
			)
		},
	}
}

func newDBRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a stored inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, done, err := openManager(opts)
			if err != nil {
				return err
			}
			defer done()

			if err := m.Remove(cmd.Context(), id); err != nil {
				return WrapExitError(ExitCommandError, "remove inventory", err)
			}
			return opts.formatter(cmd).Success(map[string]any{"removed": id.String()}, fmt.Sprintf("removed %s\n", id))
		},
	}
}
