package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/storage"
)

func TestDB_CreateListRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "inv.db")
	id := testID.String()

	out, err := execute(t, "--db", db, "db", "create", id, "9")
	require.NoError(t, err)
	assert.Equal(t, id+" has 9 slots\n", out)

	// Creating again with a smaller size keeps the larger inventory.
	out, err = execute(t, "--db", db, "db", "create", id, "4")
	require.NoError(t, err)
	assert.Equal(t, id+" has 9 slots\n", out)

	out, err = execute(t, "--db", db, "--format", "json", "db", "list")
	require.NoError(t, err)
	var resp struct {
		Data []RecordSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].ID)
	assert.Equal(t, 9, resp.Data[0].Slots)
	assert.Equal(t, int64(2), resp.Data[0].Revision)

	_, err = execute(t, "--db", db, "db", "rm", id)
	require.NoError(t, err)

	out, err = execute(t, "--db", db, "db", "list")
	require.NoError(t, err)
	assert.Equal(t, "No inventories stored.\n", out)
}

func TestDB_ImportExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "inv.db")
	src := writeInventoryFile(t, dir)

	out, err := execute(t, "--db", db, "db", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported "+testID.String()+" (3 slots)")

	raw := filepath.Join(dir, "raw.bin")
	_, err = execute(t, "--db", db, "db", "export", testID.String(), raw)
	require.NoError(t, err)
	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	packed := filepath.Join(dir, "packed.zst")
	_, err = execute(t, "--db", db, "db", "export", "--zstd", testID.String(), packed)
	require.NoError(t, err)
	data, err := os.ReadFile(packed)
	require.NoError(t, err)
	assert.True(t, storage.IsCompressed(data))

	out, err = execute(t, "inspect", packed)
	require.NoError(t, err)
	assert.Contains(t, out, "[0] stone×10")
}

func TestDB_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "inv.db")

	_, err := execute(t, "--db", db, "db", "rm", "not-a-uuid")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "--db", db, "db", "create", testID.String(), "many")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := execute(t, "--db", db, "db", "export", testID.String(), filepath.Join(t.TempDir(), "x"))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]")
}
