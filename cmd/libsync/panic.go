package libsync

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/musiclib/libsync/pkg/errors"
)

// ExitOnPanic must be deferred directly by main. It turns a panic that
// escaped the command, such as a misuse fault re-raised after the report was
// rendered, into the fault and its stack on w followed by exit(ExitErrors).
func ExitOnPanic(w io.Writer, exit func(int)) {
	r := recover()
	if r == nil {
		return
	}
	if fault := errors.AsMisuse(r); fault != nil {
		fmt.Fprintf(w, MsgErrMisuse, fault.Error())
	} else {
		fmt.Fprintf(w, MsgErrPanic, r)
	}
	fmt.Fprintf(w, "%s\n", debug.Stack())
	exit(ExitErrors)
}
