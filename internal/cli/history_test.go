package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordergraph/internal/testutil"
)

// seedHistory records three verdicts: valid, cyclic and a cached repeat of
// the valid order.
func seedHistory(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "audit.db")
	_, _, err := executeWithIDs(t, testutil.NewSequentialRunIDs("hist"), "validate", "--db", db,
		"testdata/orders/valid.json", "testdata/orders/cycle.json", "testdata/orders/valid.json")
	require.Error(t, err)
	return db
}

func TestHistoryCommand_Text(t *testing.T) {
	db := seedHistory(t)

	out, _, err := executeCommand(t, "history", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ  RUN")
	assert.Contains(t, out, "hist-0002")
	assert.Contains(t, out, "CYCLIC_DEPENDENCY 200")
	assert.Contains(t, out, "valid (cached)")
	assert.Contains(t, out, "History: 3 verdict(s), 1 rejected")
}

func TestHistoryCommand_JSONLimit(t *testing.T) {
	db := seedHistory(t)

	out, _, err := executeCommand(t, "history", "--db", db, "--limit", "2", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Verdicts, 2)
	assert.Equal(t, int64(2), resp.Data.Verdicts[0].Seq)
	assert.Equal(t, int64(3), resp.Data.Verdicts[1].Seq)
	assert.True(t, resp.Data.Verdicts[1].Cached)
	assert.Equal(t, 1, resp.Data.Rejected)
}

func TestHistoryCommand_Fingerprint(t *testing.T) {
	db := seedHistory(t)

	out, _, err := executeCommand(t, "history", "--db", db, "--limit", "0", "--format", "json")
	require.NoError(t, err)
	var all struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all.Data.Verdicts, 3)
	fp := all.Data.Verdicts[0].Fingerprint

	out, _, err = executeCommand(t, "history", "--db", db, "--fingerprint", fp, "--format", "json")
	require.NoError(t, err)
	var byFP struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &byFP))
	require.Len(t, byFP.Data.Verdicts, 2)
	for _, v := range byFP.Data.Verdicts {
		assert.Equal(t, fp, v.Fingerprint)
		assert.True(t, v.Valid)
	}
}

func TestHistoryCommand_Errors(t *testing.T) {
	_, _, err := executeCommand(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no audit database configured")

	missing := filepath.Join(t.TempDir(), "missing.db")
	_, _, err = executeCommand(t, "history", "--db", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
	assert.NoFileExists(t, missing)
}

func TestHistoryCommand_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "audit.db")
	// A run with only undecodable documents creates the database but records nothing.
	_, _, err := executeCommand(t, "validate", "--db", db, "testdata/orders/broken.json")
	require.Error(t, err)

	out, _, err := executeCommand(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No verdicts recorded in "+db)
}
