package endtoend

import "os"
import "runtime/debug"

import "github.com/pkg/errors"

// InstallCrashHook sends the report of a fatal runtime error to stderr even
// after stdout and stderr were redirected
func InstallCrashHook() error {
	return errors.Wrap(debug.SetCrashOutput(os.Stderr, debug.CrashOptions{}), "set crash output")
}
