//go:build unix

package endtoend

import "os"

import "github.com/pkg/errors"
import "golang.org/x/sys/unix"

// RedirectStdout truncates or creates name and makes it the standard output
// of the process, including output written by the runtime
func RedirectStdout(name string) (*os.File, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	if err := unix.Dup2(int(f.Fd()), unix.Stdout); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "dup2")
	}
	f.Close()
	return os.Stdout, nil
}
