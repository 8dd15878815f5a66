package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ordergraph/internal/config"
	"github.com/roach88/ordergraph/internal/gate"
	"github.com/roach88/ordergraph/internal/testutil"
)

// executeCommand runs the CLI with deterministic run ids and returns what
// it wrote to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithIDs(t, testutil.NewSequentialRunIDs("cli"), args...)
}

// executeWithIDs runs the CLI with the given run id source. Runs that share
// an audit database must share the source so run ids stay unique.
func executeWithIDs(t *testing.T, ids gate.IDGenerator, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand(&RootOptions{
		viper: config.New(),
		ids:   ids,
	})
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
