package feed

import (
	"context"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// Adapter is the remote side of the archive.
type Adapter interface {
	// FetchPublic returns items whose content references are durable.
	// Failures wrap common.ErrRemoteFetchFailed.
	FetchPublic(ctx context.Context) ([]archive.Item, error)

	// Publish announces the item's metadata. It is advisory: failures wrap
	// common.ErrRemotePublishFailed and never undo a local save.
	Publish(ctx context.Context, item archive.Item) error

	// UploadBinary stores the payload remotely and returns a durable URL
	// usable as RemoteContent.
	UploadBinary(ctx context.Context, name string, bin archive.LocalBinary) (string, error)
}

var (
	_ Adapter = (*Client)(nil)
	_ Adapter = (*Simulated)(nil)
)
