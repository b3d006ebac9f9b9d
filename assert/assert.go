package assert

import (
	"fmt"

	"github.com/bloeys/nrend/logging"
)

// T panics with the formatted message when check is false and assertions are enabled.
// Assertions are enabled by building with the 'debug' tag.
func T(check bool, msg string, args ...any) {

	if !isDebugBuild || check {
		return
	}

	msg = fmt.Sprintf(msg, args...)
	logging.ErrLog.Println("Assert failed: " + msg)
	panic("Assert failed: " + msg)
}
