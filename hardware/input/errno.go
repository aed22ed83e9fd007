package input

import (
	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// Errno maps the error taxonomy onto the numeric plugin boundary
// convention: 0 success, negated errno per failure kind. The would-block
// code is EIO, inherited from the original plugin interface.
func Errno(err error) int {
	switch errors.Cause(err) {
	case nil:
		return 0
	case ErrWouldBlock:
		return -int(unix.EIO)
	case ErrTimeout:
		return -int(unix.ETIMEDOUT)
	case ErrClosed:
		return -int(unix.ESHUTDOWN)
	}
	return -int(unix.EINVAL)
}
