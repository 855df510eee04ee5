package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/prepare_and_mount.yaml")
	require.NoError(t, err)

	assert.Equal(t, "prepare-and-mount", s.Name)
	assert.Equal(t, "prepare", s.Mode)
	require.Len(t, s.Triggers, 2)
	assert.Equal(t, "profile", s.Triggers[0].Component)
	assert.Equal(t, "PREPARE_PASS", s.Triggers[0].Caller)
	require.NotNil(t, s.Triggers[0].Expect)
	assert.Equal(t, "profile-loaded", s.Triggers[0].Expect.Result)
	require.Len(t, s.Assertions, 2)
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenarioFile(t, "manifest: components.cue\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_MissingManifest(t *testing.T) {
	path := writeScenarioFile(t, "name: incomplete\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest is required")
}

func TestLoadScenario_NotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadScenario_BadYAML(t *testing.T) {
	path := writeScenarioFile(t, "name: [unclosed\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestManifestPath_RelativeToScenarioFile(t *testing.T) {
	path := writeScenarioFile(t, "name: rel\nmanifest: components.cue\n")

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "components.cue"), s.ManifestPath())
}
