package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/stanza"
	"github.com/aretw0/stanza/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stanza version "+stanza.Version+"\n", out)
}

func TestChainsCommand(t *testing.T) {
	dir := testutils.ChainDir(t, map[string]string{
		"good": `{"a":{"b":{}}}`,
		"bad":  `{"a":`,
	})

	out, err := run(t, "chains", "--dir", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "bad\ngood\n", out)

	out, err = run(t, "chains", "--dir", dir, "--log-level", "error", "--check")
	assert.ErrorContains(t, err, "1 of 2 chains failed")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[2], "good")
	assert.Contains(t, lines[2], "3")
	assert.Contains(t, lines[2], "ok")
}

func TestInspectCommand(t *testing.T) {
	dir := testutils.ChainDir(t, map[string]string{"tiny": `{"night":{"falls":{}},"day":{}}`})

	out, err := run(t, "inspect", "tiny", "--dir", dir, "--log-level", "error", "--path", "night")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `["night"]`)
	assert.Contains(t, out, "class n1 current;")
}
