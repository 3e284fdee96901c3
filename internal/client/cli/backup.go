package cli

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/mediavault/internal/client/backup"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
)

var errPassphraseMismatch = errors.New("passphrases do not match")

// Export writes a backup of the stored archive to a file.
//
//	export <path> [embed|upgrade] [sealed]
//
// Without a policy word, items whose content only exists locally make the
// export fail.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage("export <path> [embed|upgrade] [sealed]")
	}
	var (
		opts   vault.ExportOptions
		sealed bool
	)
	for _, arg := range args[1:] {
		if arg == "sealed" {
			sealed = true
			continue
		}
		p, err := backup.ParsePolicy(arg)
		if err != nil {
			return a.fail(err)
		}
		opts.Policy = p
	}
	if sealed {
		pass, err := a.newPassphrase()
		if err != nil {
			return a.fail(err)
		}
		defer cryptox.Wipe(pass)
		opts.Passphrase = pass
	}

	data, err := a.svc.Export(ctx, opts)
	if err != nil {
		return a.fail(err)
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return a.fail(err)
	}
	a.printf("Exported archive to %s (%d bytes)", args[0], len(data))
	return nil
}

// Import replaces the archive with a backup file after confirmation.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("import <path>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return a.fail(err)
	}
	if !Confirm(a.reader, "Importing replaces every stored item and folder. Continue?", a.out) {
		a.printf("Cancelled")
		return nil
	}

	var pass []byte
	defer func() { cryptox.Wipe(pass) }()
	res, err := a.svc.Import(ctx, data, func() ([]byte, error) {
		p, err := GetPassword(a.out)
		pass = p
		return p, err
	})
	if err != nil {
		return a.fail(err)
	}
	a.printf("Imported %d item(s) and %d folder(s)", res.Items, res.Folders)
	return nil
}

// Reload re-reads local storage and the public feed.
func (a *App) Reload(ctx context.Context, _ []string) error {
	snap, err := a.svc.Load(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.printf("%d item(s), %d folder(s)", len(snap.Items), len(snap.Folders))
	if ts := a.svc.LastExport(ctx); ts != 0 {
		a.printf("Last export: %s", formatTime(ts))
	}
	return nil
}

// Status describes the storage behind the archive.
func (a *App) Status(ctx context.Context, _ []string) error {
	info, err := a.svc.StoreInfo(ctx)
	if err != nil {
		return a.fail(err)
	}
	if info.Durable {
		a.printf("Storage:  local database, schema version %d", info.SchemaVersion)
	} else {
		a.printf("Storage:  memory only, changes are lost on exit")
	}
	for _, k := range slices.Sorted(maps.Keys(info.Metadata)) {
		v := info.Metadata[k]
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			v = formatTime(ms)
		}
		a.printf("%s: %s", k, v)
	}
	return nil
}

func (a *App) newPassphrase() ([]byte, error) {
	first, err := GetPassword(a.out)
	if err != nil {
		return nil, err
	}
	second, err := GetPassword(a.out)
	if err != nil {
		cryptox.Wipe(first)
		return nil, err
	}
	defer cryptox.Wipe(second)
	if len(first) == 0 || !bytes.Equal(first, second) {
		cryptox.Wipe(first)
		return nil, errPassphraseMismatch
	}
	return first, nil
}
