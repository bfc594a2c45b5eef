package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Update(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that prompt for more input read
// from the same reader. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - whoami         ask the backend who the session belongs to
//	  - status         show the local session state
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help, whoami, status, exit as above
//	  - update         edit contact details
//	  - logout         log out
//
// Backend failures already reached the user as notifications; any other
// handler error is printed by reportErr.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gw %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, update, status, logout, exit")
			} else {
				printlnFn("Available commands: login, whoami, status, exit")
			}

		case "login":
			reportErr(cmd, a.Login(ctx))

		case "logout":
			reportErr(cmd, a.Logout(ctx))

		case "whoami":
			reportErr(cmd, a.WhoAmI(ctx))

		case "update":
			reportErr(cmd, a.Update(ctx))

		case "status":
			reportErr(cmd, a.Status(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// reportErr prints local failures of a command. API errors and the
// not-logged-in case have been shown to the user already.
func reportErr(cmd string, err error) {
	if err == nil {
		return
	}
	if _, ok := apierr.StatusCode(err); ok || errors.Is(err, session.ErrNotAuthenticated) {
		return
	}
	printlnFn(fmt.Sprintf("%s failed: %v", cmd, err))
}
