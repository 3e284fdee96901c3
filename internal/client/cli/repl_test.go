package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls   []string
	args    [][]string
	pending []string
}

func (f *fakeExec) record(name string) command {
	return func(_ context.Context, args []string) error {
		f.calls = append(f.calls, name)
		f.args = append(f.args, args)
		return nil
	}
}

func (f *fakeExec) Help(ctx context.Context, a []string) error   { return f.record("help")(ctx, a) }
func (f *fakeExec) List(ctx context.Context, a []string) error   { return f.record("list")(ctx, a) }
func (f *fakeExec) Show(ctx context.Context, a []string) error   { return f.record("show")(ctx, a) }
func (f *fakeExec) Add(ctx context.Context, a []string) error    { return f.record("add")(ctx, a) }
func (f *fakeExec) Upload(ctx context.Context, a []string) error { return f.record("upload")(ctx, a) }
func (f *fakeExec) Link(ctx context.Context, a []string) error   { return f.record("link")(ctx, a) }
func (f *fakeExec) Remove(ctx context.Context, a []string) error { return f.record("rm")(ctx, a) }
func (f *fakeExec) Move(ctx context.Context, a []string) error   { return f.record("mv")(ctx, a) }
func (f *fakeExec) ListFolders(ctx context.Context, a []string) error {
	return f.record("folders")(ctx, a)
}
func (f *fakeExec) MakeFolder(ctx context.Context, a []string) error {
	return f.record("mkdir")(ctx, a)
}
func (f *fakeExec) RemoveFolder(ctx context.Context, a []string) error {
	return f.record("rmdir")(ctx, a)
}
func (f *fakeExec) Save(ctx context.Context, a []string) error   { return f.record("save")(ctx, a) }
func (f *fakeExec) Export(ctx context.Context, a []string) error { return f.record("export")(ctx, a) }
func (f *fakeExec) Import(ctx context.Context, a []string) error { return f.record("import")(ctx, a) }
func (f *fakeExec) Reload(ctx context.Context, a []string) error { return f.record("reload")(ctx, a) }
func (f *fakeExec) Status(ctx context.Context, a []string) error { return f.record("status")(ctx, a) }

func (f *fakeExec) notices() []string {
	n := f.pending
	f.pending = nil
	return n
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"",
		"l photo root",
		"show abc",
		"mv abc -",
		"status",
		"link https://example.com My Page",
		"foobar",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"help", "list", "show", "mv", "status", "link"}, exec.calls)
	assert.Equal(t, []string{"photo", "root"}, exec.args[1])
	assert.Equal(t, []string{"https://example.com", "My", "Page"}, exec.args[5])
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "vault (status) > ")
}

func TestRunREPL_PrintsNoticesAfterCommand(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{pending: []string{"storage unavailable"}}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("reload\n")))

	assert.Equal(t, []string{"reload"}, exec.calls)
	assert.Contains(t, *out, "Notice: storage unavailable")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("folders\nreload")))

	assert.Equal(t, []string{"folders", "reload"}, exec.calls)
}

func TestRunREPL_StopsWhenContextEnds(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("folders\nreload\n")))

	assert.Equal(t, []string{"folders"}, exec.calls)
}
