package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// archiveService is the part of vault.Service the shell drives.
type archiveService interface {
	Load(ctx context.Context) (vault.Snapshot, error)
	Snapshot() vault.Snapshot
	Items(f archive.Filter) []archive.Item
	Item(id string) (archive.Item, bool)
	Folders() []archive.Folder
	TakeNotices() []string

	AddLink(ctx context.Context, url, title, category string) (archive.Item, error)
	AddFile(ctx context.Context, title, category string, bin archive.LocalBinary) (archive.Item, error)
	UploadItem(ctx context.Context, title, category string, bin archive.LocalBinary) (archive.Item, error)
	DeleteItem(ctx context.Context, id string) error
	MoveItem(ctx context.Context, id, folderID string) error
	OpenContent(id string) (vault.Content, error)

	CreateFolder(ctx context.Context, name string, typ archive.FolderType) (archive.Folder, error)
	DeleteFolder(ctx context.Context, id string) (int, error)

	Export(ctx context.Context, opts vault.ExportOptions) ([]byte, error)
	Import(ctx context.Context, data []byte, passphrase func() ([]byte, error)) (vault.ImportResult, error)
	LastExport(ctx context.Context) int64
	LastImport(ctx context.Context) int64
	StoreInfo(ctx context.Context) (vault.StoreInfo, error)
	IsStored(ctx context.Context, id string) (bool, error)
}

var _ archiveService = (*vault.Service)(nil)

type App struct {
	svc    archiveService
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds a shell reading commands from in and writing to out.
func NewApp(svc archiveService, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{svc: svc, log: log, reader: bufio.NewReader(in), out: out}
}

// Run loads the archive and runs the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.printf("Media Vault (type 'help' for commands)")
	_ = a.Reload(ctx, nil)
	runREPL(ctx, a, a.getStatus, a.reader)
	a.log.Debug(ctx, "shell exited")
}

func (a *App) getStatus() string {
	snap := a.svc.Snapshot()
	s := fmt.Sprintf("%d items, %s", len(snap.Items), snap.Status)
	if snap.Degraded {
		s += ", memory only"
	}
	return "(" + s + ")"
}

func (a *App) notices() []string {
	return a.svc.TakeNotices()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// fail reports err to the user and returns it so handlers can end with
// "return a.fail(err)".
func (a *App) fail(err error) error {
	a.printf("Error: %s", err)
	return err
}
