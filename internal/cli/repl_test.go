package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReplCommand_Session tests the blank-line-terminated cell loop end
// to end: imports persist, counters advance, "it" carries across cells.
func TestReplCommand_Session(t *testing.T) {
	input := strings.Join([]string{
		`import "fmt"`,
		``,
		`fmt.Println("first")`,
		``,
		`x := 10 * 4`,
		``,
		`:t it`,
		``,
	}, "\n")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs([]string{"repl"})

	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "In [1]: ")
	assert.Contains(t, got, "In [4]: ")
	assert.Contains(t, got, "first\n")
	assert.Contains(t, got, "it :: int")
}

// TestReplCommand_BlankCellKeepsCounter tests that evaluating nothing
// does not advance the execution counter.
func TestReplCommand_BlankCellKeepsCounter(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("\n\n\n"))
	cmd.SetArgs([]string{"repl"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "In [1]: ")
	assert.NotContains(t, out.String(), "In [2]: ")
}
