package main

import (
	"log"

	"github.com/codectl/codectl/cli/cmd"
	"github.com/codectl/codectl/cli/util"
)

func main() {
	defer func() {
		// A panic is reported as an internal error with the call stack.
		if r := recover(); r != nil {
			log.Fatalf(
				"%s", util.InternalError("Unhandled internal error: %s",
					func(bool, bool) string { return "codectl" }, r))
		}
	}()

	cmd.InitRoot()
	cmd.Execute()
}
