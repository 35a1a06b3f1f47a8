package store_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
)

func newStore(t *testing.T, config store.Config) (*store.FSStore, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return store.NewFSStore(fsys, config), fsys
}

func write(t *testing.T, s store.Store, filename, content string, options ...store.WriteOption) asset.Key {
	t.Helper()
	key, err := s.Write(context.Background(), strings.NewReader(content), filename, options...)
	require.NoError(t, err)
	return key
}

func read(t *testing.T, s store.Store, key asset.Key) string {
	t.Helper()
	rc, err := s.Read(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func visibility(t *testing.T, s store.Store, key asset.Key) asset.Visibility {
	t.Helper()
	v, err := s.Visibility(context.Background(), key.Filename, key.Hash)
	require.NoError(t, err)
	return v
}

func TestFSStore_WriteOriginal(t *testing.T) {
	ctx := context.Background()
	s, fsys := newStore(t, store.Config{})

	key := write(t, s, "pets/dog.jpg", "dog")
	assert.Equal(t, asset.NewKey("pets/dog.jpg", asset.DigestBytes([]byte("dog")), ""), key)
	assert.Equal(t, asset.Protected, visibility(t, s, key))
	assert.Equal(t, "dog", read(t, s, key))

	exists, err := afero.Exists(fsys, "/protected/pets/"+key.Hash[:10]+"/dog.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	info, err := s.Stat(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)
	assert.Equal(t, asset.Protected, info.Visibility)

	again := write(t, s, "pets/dog.jpg", "dog")
	assert.Equal(t, key, again)

	public := write(t, s, "pets/cat.jpg", "cat", store.WithVisibility(asset.Public))
	assert.Equal(t, asset.Public, visibility(t, s, public))
}

func TestFSStore_WriteHashMismatch(t *testing.T) {
	s, _ := newStore(t, store.Config{})
	_, err := s.Write(context.Background(), strings.NewReader("dog"), "pets/dog.jpg",
		store.WithHash(asset.DigestBytes([]byte("cat"))))
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)

	_, err = s.Write(context.Background(), strings.NewReader("dog"), "pets/dog__x.jpg")
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
}

func TestFSStore_HashBucketsKeepVersionsApart(t *testing.T) {
	s, _ := newStore(t, store.Config{})
	v1 := write(t, s, "pets/dog.jpg", "dog v1")
	v2 := write(t, s, "pets/dog.jpg", "dog v2")

	assert.NotEqual(t, v1.Hash, v2.Hash)
	assert.Equal(t, "dog v1", read(t, s, v1))
	assert.Equal(t, "dog v2", read(t, s, v2))
}

func TestFSStore_Variants(t *testing.T) {
	ctx := context.Background()
	s, fsys := newStore(t, store.Config{})
	original := write(t, s, "pets/dog.jpg", "dog")

	variant := write(t, s, original.Filename, "small dog",
		store.WithHash(original.Hash), store.WithVariant("Fit-bcoj0c1c64o30n8"))
	assert.Equal(t, original.WithVariant("Fit-bcoj0c1c64o30n8"), variant)
	assert.Equal(t, "small dog", read(t, s, variant))

	exists, err := s.Exists(ctx, variant)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, original.WithVariant("Grayscale"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Publish(ctx, original.Filename, original.Hash))
	found, err := afero.Exists(fsys, "/public/pets/"+original.Hash[:10]+"/dog__Fit-bcoj0c1c64o30n8.jpg")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "small dog", read(t, s, variant))

	_, err = s.Write(ctx, strings.NewReader("x"), "pets/cat.jpg",
		store.WithHash(original.Hash), store.WithVariant("Grayscale"))
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestFSStore_VariantConflicts(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{})
	original := write(t, s, "pets/dog.jpg", "dog")
	options := func(policy store.ConflictPolicy) []store.WriteOption {
		return []store.WriteOption{store.WithHash(original.Hash), store.WithVariant("Grayscale"), store.WithConflict(policy)}
	}

	variant := write(t, s, original.Filename, "first", options(store.ConflictDefault)...)

	_, err := s.Write(ctx, strings.NewReader("second"), original.Filename, options(store.ConflictException)...)
	assert.ErrorIs(t, err, errdefs.ErrConflict)

	same := write(t, s, original.Filename, "first", options(store.ConflictException)...)
	assert.Equal(t, variant, same)

	write(t, s, original.Filename, "second", options(store.ConflictUseExisting)...)
	assert.Equal(t, "first", read(t, s, variant))

	write(t, s, original.Filename, "second", options(store.ConflictOverwrite)...)
	assert.Equal(t, "second", read(t, s, variant))
}

func TestFSStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, fsys := newStore(t, store.Config{})
	original := write(t, s, "pets/dog.jpg", "dog")
	variant := write(t, s, original.Filename, "small", store.WithHash(original.Hash), store.WithVariant("Grayscale"))
	other := write(t, s, "pets/cat.jpg", "cat")

	require.NoError(t, s.Delete(ctx, original.Filename, original.Hash))
	for _, key := range []asset.Key{original, variant} {
		exists, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	}
	assert.Equal(t, asset.Absent, visibility(t, s, original))
	assert.Equal(t, "cat", read(t, s, other))

	bucket, err := afero.Exists(fsys, "/protected/pets/"+original.Hash[:10])
	require.NoError(t, err)
	assert.False(t, bucket, "empty bucket should be pruned")

	// idempotent
	require.NoError(t, s.Delete(ctx, original.Filename, original.Hash))
}

func TestFSStore_PublishProtect(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{})
	key := write(t, s, "pets/dog.jpg", "dog")

	require.NoError(t, s.Publish(ctx, key.Filename, key.Hash))
	assert.Equal(t, asset.Public, visibility(t, s, key))
	require.NoError(t, s.Publish(ctx, key.Filename, key.Hash))
	assert.Equal(t, asset.Public, visibility(t, s, key))

	require.NoError(t, s.Protect(ctx, key.Filename, key.Hash))
	assert.Equal(t, asset.Protected, visibility(t, s, key))
	require.NoError(t, s.Protect(ctx, key.Filename, key.Hash))

	missing := asset.DigestBytes([]byte("missing"))
	assert.ErrorIs(t, s.Publish(ctx, key.Filename, missing), errdefs.ErrNotFound)
	assert.ErrorIs(t, s.Protect(ctx, key.Filename, missing), errdefs.ErrNotFound)
	assert.ErrorIs(t, s.SwapPublish(ctx, key.Filename, missing), errdefs.ErrNotFound)
}

func TestFSStore_SwapPublish(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{})
	v1 := write(t, s, "pets/dog.jpg", "dog v1", store.WithVisibility(asset.Public))
	v2 := write(t, s, "pets/dog.jpg", "dog v2")
	unrelated := write(t, s, "pets/cat.jpg", "cat", store.WithVisibility(asset.Public))

	require.NoError(t, s.SwapPublish(ctx, v2.Filename, v2.Hash))
	assert.Equal(t, asset.Protected, visibility(t, s, v1))
	assert.Equal(t, asset.Public, visibility(t, s, v2))
	assert.Equal(t, asset.Public, visibility(t, s, unrelated))

	// swapping the already public version is a no-op
	require.NoError(t, s.SwapPublish(ctx, v2.Filename, v2.Hash))
	assert.Equal(t, asset.Protected, visibility(t, s, v1))
	assert.Equal(t, asset.Public, visibility(t, s, v2))

	require.NoError(t, s.SwapPublish(ctx, v1.Filename, v1.Hash))
	assert.Equal(t, asset.Public, visibility(t, s, v1))
	assert.Equal(t, asset.Protected, visibility(t, s, v2))
}

func TestFSStore_RenameCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{})
	original := write(t, s, "pets/dog.jpg", "dog")
	write(t, s, original.Filename, "small", store.WithHash(original.Hash), store.WithVariant("Grayscale"))

	copied, err := s.Copy(ctx, original.Filename, original.Hash, "backup/dog.jpg")
	require.NoError(t, err)
	assert.Equal(t, "backup/dog.jpg", copied)
	assert.Equal(t, "dog", read(t, s, original))
	assert.Equal(t, "small", read(t, s, asset.NewKey(copied, original.Hash, "Grayscale")))

	renamed, err := s.Rename(ctx, original.Filename, original.Hash, "animals/puppy.jpg")
	require.NoError(t, err)
	assert.Equal(t, "animals/puppy.jpg", renamed)
	assert.Equal(t, "small", read(t, s, asset.NewKey(renamed, original.Hash, "Grayscale")))
	assert.Equal(t, asset.Absent, visibility(t, s, original))
	assert.Equal(t, asset.Protected, visibility(t, s, asset.NewKey(renamed, original.Hash, "")))

	_, err = s.Rename(ctx, original.Filename, original.Hash, "x.jpg")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestFSStore_Grants(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{})
	key := write(t, s, "secret/plan.pdf", "plan")
	session := store.WithSession(ctx, "session-1")

	ok, err := s.CanView(ctx, key.Filename, key.Hash)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Grant(ctx, key.Filename, key.Hash), errdefs.ErrInvalidParameter)
	require.NoError(t, s.Grant(session, key.Filename, key.Hash))

	ok, err = s.CanView(session, key.Filename, key.Hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CanView(store.WithSession(ctx, "session-2"), key.Filename, key.Hash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Revoke(session, key.Filename, key.Hash))
	ok, err = s.CanView(session, key.Filename, key.Hash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Publish(ctx, key.Filename, key.Hash))
	require.NoError(t, s.Grant(ctx, key.Filename, key.Hash))
	require.NoError(t, s.Revoke(ctx, key.Filename, key.Hash))
	ok, err = s.CanView(ctx, key.Filename, key.Hash)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, s.Grant(session, key.Filename, asset.DigestBytes([]byte("nope"))), errdefs.ErrNotFound)
}

func TestFSStore_LegacyConflicts(t *testing.T) {
	ctx := context.Background()
	s, fsys := newStore(t, store.Config{LegacyFilenames: true})
	v1 := write(t, s, "pets/dog.jpg", "dog v1")

	exists, err := afero.Exists(fsys, "/protected/pets/dog.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	renamed := write(t, s, "pets/dog.jpg", "dog v2")
	assert.Equal(t, "pets/dog-v2.jpg", renamed.Filename)
	renamed = write(t, s, "pets/dog.jpg", "dog v3")
	assert.Equal(t, "pets/dog-v3.jpg", renamed.Filename)

	_, err = s.Write(ctx, strings.NewReader("dog v4"), "pets/dog.jpg", store.WithConflict(store.ConflictException))
	assert.ErrorIs(t, err, errdefs.ErrConflict)

	existing := write(t, s, "pets/dog.jpg", "dog v4", store.WithConflict(store.ConflictUseExisting))
	assert.Equal(t, v1, existing)

	overwritten := write(t, s, "pets/dog.jpg", "dog v4", store.WithConflict(store.ConflictOverwrite))
	assert.Equal(t, "pets/dog.jpg", overwritten.Filename)
	assert.Equal(t, asset.Absent, visibility(t, s, v1))
	assert.Equal(t, "dog v4", read(t, s, overwritten))
}

func TestFSStore_LegacyConflictsAcrossPartitions(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{LegacyFilenames: true})
	live := write(t, s, "pets/dog.jpg", "a", store.WithVisibility(asset.Public))

	_, err := s.Write(ctx, strings.NewReader("b"), "pets/dog.jpg", store.WithConflict(store.ConflictException))
	assert.ErrorIs(t, err, errdefs.ErrConflict)

	renamed := write(t, s, "pets/dog.jpg", "b")
	assert.Equal(t, "pets/dog-v2.jpg", renamed.Filename)
	assert.Equal(t, asset.Protected, visibility(t, s, renamed))

	existing := write(t, s, "pets/dog.jpg", "c", store.WithConflict(store.ConflictUseExisting))
	assert.Equal(t, live, existing)
	assert.Equal(t, asset.Public, visibility(t, s, live))
}

func TestFSStore_LegacySwapPublish(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, store.Config{LegacyFilenames: true})
	live := write(t, s, "pets/dog.jpg", "live", store.WithVisibility(asset.Public))
	draft := write(t, s, "pets/dog.jpg", "draft", store.WithConflict(store.ConflictOverwrite))
	write(t, s, draft.Filename, "draft small", store.WithHash(draft.Hash), store.WithVariant("Grayscale"))
	require.Equal(t, "pets/dog.jpg", draft.Filename)
	assert.Equal(t, asset.Public, visibility(t, s, live))
	assert.Equal(t, asset.Protected, visibility(t, s, draft))

	require.NoError(t, s.SwapPublish(ctx, draft.Filename, draft.Hash))
	assert.Equal(t, asset.Public, visibility(t, s, draft))
	assert.Equal(t, asset.Protected, visibility(t, s, live))
	assert.Equal(t, "draft small", read(t, s, draft.WithVariant("Grayscale")))
	assert.Equal(t, "live", read(t, s, live))

	// both versions fit the protected partition
	require.NoError(t, s.Protect(ctx, draft.Filename, draft.Hash))
	assert.Equal(t, asset.Protected, visibility(t, s, draft))
	assert.Equal(t, asset.Protected, visibility(t, s, live))
	assert.Equal(t, "draft", read(t, s, draft))
	assert.Equal(t, "live", read(t, s, live))

	require.NoError(t, s.Publish(ctx, live.Filename, live.Hash))
	assert.Equal(t, asset.Public, visibility(t, s, live))
	assert.Equal(t, "live", read(t, s, live))

	require.NoError(t, s.Delete(ctx, draft.Filename, draft.Hash))
	assert.Equal(t, asset.Absent, visibility(t, s, draft))
	assert.Equal(t, "live", read(t, s, live))
}

func TestFSStore_BucketPrefixIsNotTheHash(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		ctx := context.Background()
		s, _ := newStore(t, store.Config{LegacyFilenames: legacy})
		key := write(t, s, "pets/dog.jpg", "dog")
		lookalike := key.Hash[:asset.MinHashLength] + strings.Repeat("0", len(key.Hash)-asset.MinHashLength)
		require.NotEqual(t, key.Hash, lookalike)

		exists, err := s.Exists(ctx, asset.NewKey(key.Filename, lookalike, ""))
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, asset.Absent, visibility(t, s, asset.NewKey(key.Filename, lookalike, "")))

		assert.ErrorIs(t, s.Publish(ctx, key.Filename, lookalike), errdefs.ErrNotFound)
		require.NoError(t, s.Delete(ctx, key.Filename, lookalike))
		assert.Equal(t, asset.Protected, visibility(t, s, key))
		assert.Equal(t, "dog", read(t, s, key))
	}
}

func TestConflictPolicy_Parse(t *testing.T) {
	for _, p := range []store.ConflictPolicy{store.ConflictDefault, store.ConflictOverwrite, store.ConflictRename, store.ConflictUseExisting, store.ConflictException} {
		parsed, err := store.ParseConflictPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := store.ParseConflictPolicy("merge")
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
}
