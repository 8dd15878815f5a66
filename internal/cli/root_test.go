package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ordergraph", cmd.Use)
	assert.Contains(t, cmd.Long, "dependency")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "find", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "log-level", "db"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	maxSteps := validateCmd.Flags().Lookup("max-steps")
	require.NotNil(t, maxSteps)
	assert.Equal(t, "100000", maxSteps.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	limit := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, historyCmd.Flags().Lookup("fingerprint"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--format", "xml", "testdata/orders/valid.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--log-level", "chatty", "testdata/orders/valid.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ordergraph.yaml")
	writeTestFile(t, cfgPath, "format: json\nmax_steps: 2\n")

	// Chain 100 <- 200 <- 300 <- 400 needs more than two steps.
	orderPath := filepath.Join(dir, "chain.json")
	writeTestFile(t, orderPath, `{"id":"c","items":[{"id":"100"},`+
		`{"id":"200","relationships":[{"targetId":"100"}]},`+
		`{"id":"300","relationships":[{"targetId":"200"}]},`+
		`{"id":"400","relationships":[{"targetId":"300"}]}]}`)

	out, _, err := executeCommand(t, "validate", "--config", cfgPath, orderPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `"status": "error"`)
	assert.Contains(t, out, "GRAPH_TOO_COMPLEX")

	// Flags override the config file.
	out, _, err = executeCommand(t, "validate", "--config", cfgPath, "--max-steps", "50", orderPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)

	// Environment overrides the config file.
	t.Setenv("ORDERGRAPH_FORMAT", "text")
	out, _, err = executeCommand(t, "validate", "--config", cfgPath, "--max-steps", "50", orderPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+orderPath)
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "testdata/orders/valid.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}
