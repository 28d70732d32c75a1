package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGolden runs each deterministic scenario and compares its full trace
// against the committed golden file.
func TestGolden(t *testing.T) {
	for _, name := range []string{"hello-world", "type-directive"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("testdata/" + name + ".yaml")
			require.NoError(t, err)
			require.Equal(t, name, scenario.Name)

			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}
