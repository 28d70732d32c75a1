package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbcell/internal/display"
)

// TestParse_FullKernel tests that every kernel field decodes.
func TestParse_FullKernel(t *testing.T) {
	src := []byte(`
kernel: {
	errorColor: "crimson"
	typeColor:  "teal"
	imports: ["fmt", "strings"]
	preamble: ["const answer = 42"]
}
`)
	kernel, err := Parse(src, "kernel.cue")
	require.NoError(t, err)

	assert.Equal(t, "crimson", kernel.ErrorColor)
	assert.Equal(t, "teal", kernel.TypeColor)
	assert.Equal(t, []string{"fmt", "strings"}, kernel.Imports)
	assert.Equal(t, []string{"const answer = 42"}, kernel.Preamble)
}

// TestParse_PartialKernel tests that unset fields keep defaults.
func TestParse_PartialKernel(t *testing.T) {
	src := []byte(`kernel: errorColor: "orange"`)

	kernel, err := Parse(src, "kernel.cue")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "orange", kernel.ErrorColor)
	assert.Equal(t, def.TypeColor, kernel.TypeColor)
	assert.Empty(t, kernel.Imports)
}

// TestParse_NoKernelStruct tests that config without a kernel block is
// the default kernel.
func TestParse_NoKernelStruct(t *testing.T) {
	kernel, err := Parse([]byte(`other: 1`), "kernel.cue")
	require.NoError(t, err)
	assert.Equal(t, Default(), kernel)
}

// TestParse_WrongFieldType tests the typed error for a non-string color.
func TestParse_WrongFieldType(t *testing.T) {
	src := []byte(`kernel: errorColor: 7`)

	_, err := Parse(src, "kernel.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "errorColor", cfgErr.Field)
	assert.Contains(t, cfgErr.Error(), "must be a string")
}

// TestParse_WrongListType tests the typed error for a non-list imports.
func TestParse_WrongListType(t *testing.T) {
	src := []byte(`kernel: imports: "fmt"`)

	_, err := Parse(src, "kernel.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "imports", cfgErr.Field)
}

// TestParse_EmptyColorRejected tests the non-empty color validation.
func TestParse_EmptyColorRejected(t *testing.T) {
	src := []byte(`kernel: errorColor: ""`)

	_, err := Parse(src, "kernel.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "kernel", cfgErr.Field)
}

// TestParse_SyntaxErrorHasPosition tests that malformed CUE reports a
// position-bearing error.
func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	src := []byte("kernel: {\n\terrorColor \"red\"\n")

	_, err := Parse(src, "kernel.cue")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "kernel.cue")
}

// TestLoad tests the file path entry point, including missing files.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kernel.cue")
	require.NoError(t, os.WriteFile(path, []byte(`kernel: typeColor: "blue"`), 0o644))

	kernel, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "blue", kernel.TypeColor)

	_, err = Load(filepath.Join(dir, "absent.cue"))
	assert.Error(t, err)
}

// TestDisplayOptions tests the kernel-to-renderer mapping.
func TestDisplayOptions(t *testing.T) {
	kernel := &Kernel{ErrorColor: "red", TypeColor: "green"}
	assert.Equal(t, display.Options{ErrorColor: "red", TypeColor: "green"}, kernel.DisplayOptions())
}
