package jailmon

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Output formats accepted by commands taking an --output flag.
const (
	JSONFormat = "json"
	YAMLFormat = "yaml"
)

// Fatal is a hook the commands report unrecoverable errors through. Tests
// swap in FakeFatalErrorHandler so they can observe the message instead of
// exiting.
var Fatal = FatalErrorHandler

func FatalErrorHandler(cmd *cobra.Command, msg string, code int) {
	if len(msg) > 0 {
		// add newline if needed
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		cmd.Print(msg)
	}
	os.Exit(code)
}

// TestFatalErrorHandlerContents is what FakeFatalErrorHandler prints, so
// tests can unmarshal the would-be exit.
type TestFatalErrorHandlerContents struct {
	Message string
	Code    int
}

// FakeFatalErrorHandler captures the fatal message as JSON on the command's
// output instead of exiting. The calling function keeps running after it
// returns, which is fine for tests but is why this never ships as the
// default handler.
func FakeFatalErrorHandler(cmd *cobra.Command, msg string, code int) {
	c := TestFatalErrorHandlerContents{Message: msg, Code: code}
	b, _ := json.Marshal(c)
	cmd.Println(string(b))
}
