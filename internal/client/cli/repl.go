package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/grpc/status"
)

// execIface defines the command surface the REPL dispatches to. The real
// App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Ping(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Site(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Assign(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const helpText = "Available commands: ping, users, site, page, add, status, assign, archive, delete, exit"

// errUsage is returned by commands invoked with the wrong arguments.
var errUsage = errors.New("usage")

type usageError struct {
	usage string
}

func (e usageError) Error() string { return "Usage: " + e.usage }
func (e usageError) Is(target error) bool {
	return target == errUsage
}

func usage(u string) error { return usageError{usage: u} }

// describe renders a command error for the user. gRPC errors are shown
// with their code and message.
func describe(err error) string {
	if errors.Is(err, errUsage) {
		return err.Error()
	}
	if st, ok := status.FromError(err); ok {
		return fmt.Sprintf("error: %s: %s", st.Code(), st.Message())
	}
	return "error: " + err.Error()
}

// runREPL reads commands from reader until EOF, exit or ctx cancellation,
// and dispatches them to a. The prompt is printed only when prompt is
// true.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer, prompt bool) {
	commands := map[string]func(context.Context, []string) error{
		"ping":    a.Ping,
		"users":   a.Users,
		"site":    a.Site,
		"page":    a.Page,
		"add":     a.Add,
		"status":  a.Status,
		"assign":  a.Assign,
		"archive": a.Archive,
		"delete":  a.Delete,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Fprintf(w, "fb %s> ", statusFn())
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			run, ok := commands[cmd]
			if !ok {
				fmt.Fprintln(w, "Unknown command:", cmd)
				continue
			}
			if err := run(ctx, args); err != nil {
				fmt.Fprintln(w, describe(err))
			}
		}
	}
}

func (a *App) status() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

// Root starts the online watcher and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prompt := interactive()
	if prompt {
		fmt.Fprintln(a.out, "Welcome to the feedback backoffice (type 'help' for commands)")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, a.reader, a.out, prompt)
}
