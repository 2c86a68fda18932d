package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRootWiresCommands(t *testing.T) {
	root := BuildRoot()
	require.Equal(t, "audityzer", root.Use)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["scan"])
	require.True(t, names["init"])
	require.True(t, names["rules"])
}

func TestScanCommandFlags(t *testing.T) {
	root := BuildRoot()
	scan, _, err := root.Find([]string{"scan"})
	require.NoError(t, err)

	for _, name := range []string{
		"format", "mode", "fail-on", "out", "sarif-out",
		"baseline", "write-baseline", "extra-rules", "no-cache",
		"tui", "verbose", "debug",
	} {
		require.NotNil(t, scan.Flags().Lookup(name), "flag %s", name)
	}
	require.Equal(t, "table", scan.Flags().Lookup("format").DefValue)
}
