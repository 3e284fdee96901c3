package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// ListFolders prints every folder with the number of items it holds.
func (a *App) ListFolders(_ context.Context, _ []string) error {
	fs := a.svc.Folders()
	if len(fs) == 0 {
		a.printf("No folders")
		return nil
	}
	for _, f := range fs {
		n := len(a.svc.Items(archive.Filter{FolderID: f.ID}))
		a.printf("%s  %-8s %s (%d)", f.ID, f.Type, f.Name, n)
	}
	return nil
}

// MakeFolder creates a folder. A trailing folder type word sets its type.
func (a *App) MakeFolder(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage("mkdir <name> [type]")
	}
	var typ archive.FolderType
	if last := archive.FolderType(args[len(args)-1]); len(args) > 1 && last.Valid() {
		typ = last
		args = args[:len(args)-1]
	}
	f, err := a.svc.CreateFolder(ctx, strings.Join(args, " "), typ)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Created folder %s (%s)", f.Name, f.ID)
	return nil
}

// RemoveFolder deletes a folder after confirmation. Its items move to the
// root, they are not deleted.
func (a *App) RemoveFolder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("rmdir <id>")
	}
	id := args[0]
	var name string
	for _, f := range a.svc.Folders() {
		if f.ID == id {
			name = f.Name
		}
	}
	if name == "" {
		return a.fail(fmt.Errorf("folder %s not found", id))
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete folder %q? Its items move to the root.", name), a.out) {
		a.printf("Cancelled")
		return nil
	}
	n, err := a.svc.DeleteFolder(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Deleted folder %s, %d item(s) moved to the root", name, n)
	return nil
}
