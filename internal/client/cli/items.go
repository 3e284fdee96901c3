package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.printf("Usage: %s", text)
	return errUsage
}

// Help prints the command summary.
func (a *App) Help(_ context.Context, _ []string) error {
	a.printf(`Available commands:
  list [type] [folder-id|root]     browse items (types: all photo video audio document link)
  show <id>                        item details
  add <path> [category]            store a local file in the archive
  upload <path> [category]         upload a file to the cloud and archive its URL
  link <url> <title...>            bookmark an external link
  rm <id>                          delete an item
  mv <id> <folder-id|->            move an item into a folder or back to the root
  folders                          list folders
  mkdir <name> [type]              create a folder
  rmdir <id>                       delete a folder, its items move to the root
  save <id> <path>                 write an item's payload to disk
  export <path> [embed|upgrade] [sealed]
  import <path>                    replace the archive with a backup
  reload                           re-read local storage and the public feed
  status                           show where the archive is stored
  exit`)
	return nil
}

// List prints the items matching the optional type tab and folder.
func (a *App) List(_ context.Context, args []string) error {
	var f archive.Filter
	for _, arg := range args {
		switch {
		case arg == "all" || archive.ItemType(arg).Valid():
			f.Type = archive.ItemType(arg)
		case arg == "root":
			f.RootOnly = true
		default:
			f.FolderID = arg
		}
	}

	items := a.svc.Items(f)
	if len(items) == 0 {
		a.printf("No items")
		return nil
	}
	for _, it := range items {
		a.printf("%s", formatItem(it))
	}
	return nil
}

// Show prints the details of one item.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("show <id>")
	}
	it, ok := a.svc.Item(args[0])
	if !ok {
		return a.fail(fmt.Errorf("item %s not found", args[0]))
	}

	a.printf("ID:       %s", it.ID)
	a.printf("Title:    %s", it.Title)
	a.printf("Type:     %s", it.Type)
	if it.Category != "" {
		a.printf("Category: %s", it.Category)
	}
	if it.FolderID != "" {
		a.printf("Folder:   %s", it.FolderID)
	}
	a.printf("Created:  %s", formatTime(it.Timestamp))
	if bin, ok := it.Binary(); ok {
		a.printf("Content:  local %s, %d bytes", bin.MimeHint, len(bin.Data))
	} else if src := it.Source(); src != "" {
		a.printf("Content:  %s", src)
	}
	if it.IsExternal {
		a.printf("External link")
	}
	if stored, err := a.svc.IsStored(ctx, it.ID); err != nil {
		a.log.Warn(ctx, "store lookup failed", "item_id", it.ID, "err", err)
	} else if stored {
		a.printf("Stored:   local archive")
	} else {
		a.printf("Stored:   public feed only")
	}
	return nil
}

// Add stores a local file in the archive.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage("add <path> [category]")
	}
	title, bin, err := readBinary(args[0])
	if err != nil {
		return a.fail(err)
	}
	it, err := a.svc.AddFile(ctx, title, strings.Join(args[1:], " "), bin)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Added %s", formatItem(it))
	return nil
}

// Upload sends a local file to the cloud and archives its durable URL.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage("upload <path> [category]")
	}
	title, bin, err := readBinary(args[0])
	if err != nil {
		return a.fail(err)
	}
	it, err := a.svc.UploadItem(ctx, title, strings.Join(args[1:], " "), bin)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Uploaded %s", formatItem(it))
	return nil
}

// Link bookmarks an external URL.
func (a *App) Link(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.usage("link <url> <title...>")
	}
	it, err := a.svc.AddLink(ctx, args[0], strings.Join(args[1:], " "), "")
	if err != nil {
		return a.fail(err)
	}
	a.printf("Added %s", formatItem(it))
	return nil
}

// Remove deletes an item after confirmation.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("rm <id>")
	}
	it, ok := a.svc.Item(args[0])
	if !ok {
		return a.fail(fmt.Errorf("item %s not found", args[0]))
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete %q?", it.Title), a.out) {
		a.printf("Cancelled")
		return nil
	}
	if err := a.svc.DeleteItem(ctx, it.ID); err != nil {
		return a.fail(err)
	}
	a.printf("Deleted %s", it.ID)
	return nil
}

// Move reassigns an item's folder; "-" moves it back to the root.
func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("mv <id> <folder-id|->")
	}
	folderID := args[1]
	if folderID == "-" {
		folderID = ""
	}
	if err := a.svc.MoveItem(ctx, args[0], folderID); err != nil {
		return a.fail(err)
	}
	a.printf("Moved %s", args[0])
	return nil
}

// Save writes a local payload to disk. Remote content is only printed,
// it is not downloaded.
func (a *App) Save(_ context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("save <id> <path>")
	}
	c, err := a.svc.OpenContent(args[0])
	if err != nil {
		return a.fail(err)
	}
	if c.Binary == nil {
		a.printf("%s is stored remotely: %s", c.Name, c.URL)
		return nil
	}
	if err := os.WriteFile(args[1], c.Binary.Data, 0o600); err != nil {
		return a.fail(err)
	}
	a.printf("Saved %s to %s (%d bytes)", c.Name, args[1], len(c.Binary.Data))
	return nil
}

// readBinary loads path and derives the item title and MIME hint from it.
func readBinary(path string) (string, archive.LocalBinary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", archive.LocalBinary{}, err
	}
	if len(data) == 0 {
		return "", archive.LocalBinary{}, fmt.Errorf("%s is empty", path)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)

	mt := mime.TypeByExtension(ext)
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	return strings.TrimSuffix(base, ext), archive.LocalBinary{Data: data, MimeHint: mt}, nil
}

func formatItem(it archive.Item) string {
	where := "root"
	if it.FolderID != "" {
		where = it.FolderID
	}
	s := fmt.Sprintf("%s  %-8s %-30s %s  [%s]", it.ID, it.Type, it.Title, formatTime(it.Timestamp), where)
	if !it.IsDurable() {
		s += " (local)"
	}
	return s
}

func formatTime(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
