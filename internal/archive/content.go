package archive

// Content is where an item's primary payload lives. It is either a durable
// RemoteContent or a LocalBinary that only exists in the local store.
type Content interface {
	isContent()
}

// RemoteContent is a permanent, publicly resolvable reference.
type RemoteContent struct {
	URL string
}

// LocalBinary is a raw payload produced by a local upload that has not been
// pushed to remote storage. It is owned by exactly one item.
type LocalBinary struct {
	Data     []byte
	MimeHint string
}

func (RemoteContent) isContent() {}
func (LocalBinary) isContent()   {}

// Clone returns a copy whose Data does not alias b.Data.
func (b LocalBinary) Clone() LocalBinary {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return LocalBinary{Data: data, MimeHint: b.MimeHint}
}
