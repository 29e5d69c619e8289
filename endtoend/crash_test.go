package endtoend

import "testing"

import "github.com/stretchr/testify/require"

func TestInstallCrashHook(t *testing.T) {
	require.NoError(t, InstallCrashHook())
	// installing again replaces the previous crash output
	require.NoError(t, InstallCrashHook())
}
