// Package cli provides the interactive archive shell.
//
// The shell is a thin UI layer over vault.Service: it loads the reconciled
// archive on start, then reads one command per line and prints the result.
// Soft warnings raised by the service (degraded storage, failed publish) are
// printed after the command that caused them.
//
// Key features:
//   - Browse by type tab or folder (list, show, folders)
//   - Add local files, cloud uploads and external links
//   - Organize with folders (mkdir, mv, rmdir)
//   - Save an item's payload to disk
//   - Inspect where the archive is stored (status)
//   - Export / import backups, optionally sealed with a passphrase
//
// Destructive commands (rm, rmdir, import) ask for confirmation. The REPL is
// started with App.Run, which blocks until the user exits.
package cli
