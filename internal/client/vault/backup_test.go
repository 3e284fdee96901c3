package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/backup"
	"github.com/dmitrijs2005/mediavault/internal/client/localdb"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

func seed(t *testing.T, s *Service) (archive.Folder, archive.Item, archive.Item) {
	t.Helper()
	ctx := context.Background()
	f, err := s.CreateFolder(ctx, "Trip", archive.FolderPhoto)
	require.NoError(t, err)

	link := linkItem("l1", 100, "Go")
	link.FolderID = f.ID
	_, err = s.AddItem(ctx, link)
	require.NoError(t, err)

	file, err := s.AddFile(ctx, "sea", "Trips", archive.LocalBinary{Data: []byte{1, 2, 3}, MimeHint: "image/png"})
	require.NoError(t, err)
	return f, link, file
}

func TestExport_RejectsNonDurableByDefault(t *testing.T) {
	s := newService(t, localdb.NewMemoryStore(), nil)
	_, _, file := seed(t, s)

	_, err := s.Export(context.Background(), ExportOptions{})
	require.ErrorIs(t, err, common.ErrNonDurableContent)
	assert.Contains(t, err.Error(), file.ID)
	assert.Zero(t, s.LastExport(context.Background()))
}

func TestExportImport_RoundTripIntoFreshArchive(t *testing.T) {
	ctx := context.Background()
	src := newService(t, localdb.NewMemoryStore(), nil)
	f, link, file := seed(t, src)

	doc, err := src.Export(ctx, ExportOptions{Policy: backup.PolicyEmbed})
	require.NoError(t, err)
	assert.NotContains(t, string(doc), archive.SessionRefScheme)
	assert.NotZero(t, src.LastExport(ctx))

	dstStore := localdb.NewMemoryStore()
	require.NoError(t, dstStore.Items().Put(ctx, linkItem("stale", 1, "old")))
	dst := newService(t, dstStore, nil)
	mustLoad(t, dst)

	res, err := dst.Import(ctx, doc, nil)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Items: 2, Folders: 1}, res)
	assert.NotZero(t, dst.LastImport(ctx))

	snap := dst.Snapshot()
	assert.Equal(t, []archive.Folder{f}, snap.Folders)
	require.ElementsMatch(t, []string{link.ID, file.ID}, ids(snap.Items))

	gotLink, ok := dst.Item(link.ID)
	require.True(t, ok)
	assert.Equal(t, link, gotLink)

	gotFile, ok := dst.Item(file.ID)
	require.True(t, ok)
	assert.True(t, archive.IsSessionRef(gotFile.SessionRef))
	c, err := dst.OpenContent(file.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, c.Binary.Data)

	stored, err := dstStore.Items().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "import replaces the store contents")
}

func TestExport_UpgradePersistsDurableReferences(t *testing.T) {
	ctx := context.Background()
	fd := &fakeFeed{}
	st := localdb.NewMemoryStore()
	s := newService(t, st, fd)
	_, _, file := seed(t, s)

	doc, err := s.Export(ctx, ExportOptions{Policy: backup.PolicyUpgrade})
	require.NoError(t, err)
	assert.Equal(t, 1, fd.uploads)

	parsed, err := backup.Decode(doc)
	require.NoError(t, err)
	assert.Empty(t, backup.NonDurable(parsed.Projects))

	stored, err := st.Items().GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDurable())
	assert.Equal(t, "https://cdn.example.com/sea", stored.Image)

	shown, ok := s.Item(file.ID)
	require.True(t, ok)
	assert.Empty(t, shown.SessionRef)
	assert.Zero(t, s.refs.Len())
}

func TestExportImport_Sealed(t *testing.T) {
	ctx := context.Background()
	src := newService(t, localdb.NewMemoryStore(), nil)
	seed(t, src)

	doc, err := src.Export(ctx, ExportOptions{Policy: backup.PolicyEmbed, Passphrase: []byte("pw")})
	require.NoError(t, err)
	require.True(t, backup.IsSealed(doc))

	dst := newService(t, localdb.NewMemoryStore(), nil)
	_, err = dst.Import(ctx, doc, nil)
	require.ErrorIs(t, err, backup.ErrPassphrase)

	res, err := dst.Import(ctx, doc, func() ([]byte, error) { return []byte("pw"), nil })
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)
}

func TestImport_InvalidDocumentLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	st := localdb.NewMemoryStore()
	s := newService(t, st, nil)
	_, link, _ := seed(t, s)
	before := s.Snapshot()

	bad := []byte(`{"projects":[{"id":"x","title":"ok","type":"link","image":"","timestamp":1},{"id":"y","title":"","type":"link","image":"","timestamp":2}]}`)
	_, err := s.Import(ctx, bad, nil)
	require.ErrorIs(t, err, common.ErrInvalidBackupFormat)

	assert.Equal(t, ids(before.Items), ids(s.Snapshot().Items))
	_, err = st.Items().GetByID(ctx, "x")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = st.Items().GetByID(ctx, link.ID)
	require.NoError(t, err)
}

func TestImport_StoreFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore()
	s := newService(t, st, nil)
	_, err := s.AddLink(ctx, "https://keep.example", "keep", "")
	require.NoError(t, err)

	st.set(false, true)
	_, err = s.Import(ctx, []byte(`{"projects":[],"folders":[]}`), nil)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Len(t, s.Snapshot().Items, 1)
}
