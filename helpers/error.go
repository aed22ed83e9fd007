// Assorted small helpers with no better home.
package helpers

import (
	"strings"

	"github.com/juju/errors"
)

// FoldErrors collapses a batch of possibly-nil errors into one, nil
// when nothing went wrong. Used where config loading and device setup
// want to report every problem at once instead of the first.
func FoldErrors(errs []error) error {
	ss := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			ss = append(ss, e.Error())
		}
	}
	if len(ss) == 0 {
		return nil
	}
	return errors.New(strings.Join(ss, "\n"))
}
