package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	Submit(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Users(ctx context.Context) error
	SetRole(ctx context.Context, args []string) error
	SetPassword(ctx context.Context, args []string) error
	RemoveUser(ctx context.Context, args []string) error
	BulkDelete(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	ExportAll(ctx context.Context, args []string) error
}

var errUsage = errors.New("usage")

const (
	helpGuest = "Available commands: register, login, exit"
	helpUser  = "Available commands: submit, (l)ist [latest|all|N|A-B], edit <N>, delete <N>, export [csv|xlsx] [mode], passwd, whoami, logout, exit"
	helpAdmin = "Admin commands: users, role <user> <admin|user>, setpw <user>, rmuser <user>, " +
		"bulkdelete <user> <all|N|A-B>, exportall [csv|xlsx], reset\n" +
		"submit, list, edit, delete and export accept a trailing <user> to act on another account"
)

// runREPL reads commands line by line and dispatches them to a until EOF or
// "exit"/"quit". Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("skd %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
			switch {
			case a.isAdmin():
				printlnFn(helpUser)
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "submit":
			cmdErr = a.Submit(ctx, args)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "users":
			cmdErr = a.Users(ctx)
		case "role":
			cmdErr = a.SetRole(ctx, args)
		case "setpw":
			cmdErr = a.SetPassword(ctx, args)
		case "rmuser":
			cmdErr = a.RemoveUser(ctx, args)
		case "bulkdelete":
			cmdErr = a.BulkDelete(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "exportall":
			cmdErr = a.ExportAll(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		switch {
		case errors.Is(cmdErr, errUsage):
			printlnFn(cmdErr.Error())
		case cmdErr != nil:
			printlnFn("error:", cmdErr)
		}
	}
}

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}
