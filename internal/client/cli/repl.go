package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command handles one shell command. args excludes the command word.
type command func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Link(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	ListFolders(ctx context.Context, args []string) error
	MakeFolder(ctx context.Context, args []string) error
	RemoveFolder(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	notices() []string
}

func commands(a execIface) map[string]command {
	return map[string]command{
		"help":    a.Help,
		"l":       a.List,
		"list":    a.List,
		"show":    a.Show,
		"add":     a.Add,
		"upload":  a.Upload,
		"link":    a.Link,
		"rm":      a.Remove,
		"mv":      a.Move,
		"folders": a.ListFolders,
		"mkdir":   a.MakeFolder,
		"rmdir":   a.RemoveFolder,
		"save":    a.Save,
		"export":  a.Export,
		"import":  a.Import,
		"reload":  a.Reload,
		"status":  a.Status,
	}
}

// runREPL starts the read–eval–print loop of the shell.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to a. Unknown commands are reported back to the user. The loop
// exits on end of input or when the user types "exit" or "quit". Errors
// returned by handlers are ignored here; handlers report their own errors.
// Pending service notices are printed after every command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	table := commands(a)
	for {
		printlnFn(fmt.Sprintf("vault %s > ", statusFn()))
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
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if h, ok := table[cmd]; ok {
			_ = h(ctx, parts[1:])
		} else {
			printlnFn("Unknown command:", cmd)
		}

		for _, n := range a.notices() {
			printlnFn("Notice:", n)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
