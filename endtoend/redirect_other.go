//go:build !unix

package endtoend

import "os"

import "github.com/pkg/errors"

// RedirectStdout truncates or creates name and makes it the standard output
// of the Go program
func RedirectStdout(name string) (*os.File, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	os.Stdout = f
	return f, nil
}
