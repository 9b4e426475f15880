package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const charterYAML = `knowledgeAreas: [Planning]
processGroups: [Initiating, Executing]
processes:
  - id: p1
    name: Develop Charter
    correctLocation:
      knowledgeArea: Planning
      processGroup: Initiating
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "matchboard "+Version+"\n", out)
}

func TestPlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(charterYAML), 0o644))
	t.Setenv("SOUND", "false")

	out, err := run(t, "move p1 1 2\nmove p1 1 1\nquit\n",
		"play", "--dataset", path, "--seed", "3", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Process matching: 1 processes")
	assert.Contains(t, out, "Incorrect: 1")
	assert.Contains(t, out, "Correct.")
	assert.Contains(t, out, "Every process is in its correct cell.")
	assert.NotContains(t, out, "\a")
}

func TestPlayErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing dataset", args: []string{"play", "--dataset", filepath.Join(t.TempDir(), "nope.json")}},
		{name: "unknown language", args: []string{"play", "--lang", "xx"}},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "play"}},
		{name: "stray argument", args: []string{"version", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "quit\n", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	setupLogging("bogus", &buf, false)
	assert.Equal(t, "info", zerolog.GlobalLevel().String())
	setupLogging("debug", &buf, true)
	assert.Equal(t, "debug", zerolog.GlobalLevel().String())
	setupLogging("info", &buf, false)
}
