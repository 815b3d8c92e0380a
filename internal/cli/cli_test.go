package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smsbridge/smsbridge/internal/testutil"
)

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smsbridge.toml")

	rootCmd.SetArgs([]string{"config", "init", "--path", path})
	testutil.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	testutil.NoError(t, err)
	testutil.Contains(t, string(data), "[server]")
	testutil.Contains(t, string(data), "[pipeline]")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smsbridge.toml")
	testutil.NoError(t, os.WriteFile(path, []byte("# existing"), 0o644))

	rootCmd.SetArgs([]string{"config", "init", "--path", path})
	testutil.ErrorContains(t, rootCmd.Execute(), "already exists")
}

func TestParseSlogLevel(t *testing.T) {
	t.Parallel()
	testutil.Equal(t, "DEBUG", parseSlogLevel("debug").String())
	testutil.Equal(t, "WARN", parseSlogLevel("warn").String())
	testutil.Equal(t, "ERROR", parseSlogLevel("error").String())
	testutil.Equal(t, "INFO", parseSlogLevel("").String())
	testutil.Equal(t, "INFO", parseSlogLevel("info").String())
}

func TestNewLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, _, closeLog := newLogger("info", "json", dir)
	logger.Info("hello", "k", "v")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, "smsbridge.log"))
	testutil.NoError(t, err)
	testutil.Contains(t, string(data), `"hello"`)
}
