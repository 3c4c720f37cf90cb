package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	role(ctx context.Context) models.Role

	Doctors(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Book(ctx context.Context, args []string) error
	Appointments(ctx context.Context, args []string) error
	Schedule(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Confirm(ctx context.Context, args []string) error
	Decline(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error

	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: doctors, calendar <doctorID>, login, signup, exit"
	helpPatient   = "Available commands: doctors, calendar <doctorID>, book [doctorID date time], appointments, cancel <id>, whoami, logout, exit"
	helpDoctor    = "Available commands: doctors, calendar <doctorID>, appointments, schedule [doctorID], stats [doctorID], confirm <id>, decline <id>, cancel <id>, export <path|s3://bucket/key>, import <path|s3://bucket/key> [--replace], whoami, logout, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit"/"quit" or ctx cancellation. Prompts and replies go to out. Errors
// from handlers are printed as user-facing messages and the loop continues.
//
// The prompt shows the signed-in user (from statusFn). Command availability
// depends on the role; see the help texts above.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "medibook%s> ", prefixSpace(statusFn(ctx)))

		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			switch a.role(ctx) {
			case models.RolePatient:
				fmt.Fprintln(out, helpPatient)
			case models.RoleDoctor:
				fmt.Fprintln(out, helpDoctor)
			default:
				fmt.Fprintln(out, helpAnonymous)
			}

		case "doctors":
			cmdErr = a.Doctors(ctx, args)
		case "calendar":
			cmdErr = a.Calendar(ctx, args)
		case "book":
			cmdErr = a.Book(ctx, args)
		case "appointments", "l", "list":
			cmdErr = a.Appointments(ctx, args)
		case "schedule":
			cmdErr = a.Schedule(ctx, args)
		case "stats":
			cmdErr = a.Stats(ctx, args)
		case "confirm":
			cmdErr = a.Confirm(ctx, args)
		case "decline":
			cmdErr = a.Decline(ctx, args)
		case "cancel":
			cmdErr = a.Cancel(ctx, args)

		case "login":
			cmdErr = a.Login(ctx, args)
		case "signup", "register":
			cmdErr = a.Signup(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "whoami":
			cmdErr = a.WhoAmI(ctx, args)

		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, userMessage(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
