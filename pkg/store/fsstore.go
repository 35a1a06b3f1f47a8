package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/util/xcache"
	"github.com/wuxler/ruasset/pkg/util/xcontext"
	"github.com/wuxler/ruasset/pkg/util/xio"
	"github.com/wuxler/ruasset/pkg/util/xlock"
	"github.com/wuxler/ruasset/pkg/xlog"
)

const (
	publicRoot    = "/public"
	protectedRoot = "/protected"
	tempRoot      = "/.tmp"
)

var (
	_ Store = (*FSStore)(nil)

	versionSuffixPattern = regexp.MustCompile(`^(.*)-v([0-9]+)$`)
)

// Config configures a FSStore.
type Config struct {
	// LegacyFilenames stores files without hash buckets, see LegacyLayout.
	LegacyFilenames bool `json:"legacy_filenames" yaml:"legacy_filenames"`
	// DefaultVisibility is the partition new originals are written to,
	// defaults to asset.Protected.
	DefaultVisibility asset.Visibility `json:"default_visibility" yaml:"default_visibility"`
}

// FSStore is a Store on top of an afero filesystem. The filesystem holds
// one directory per partition and a scratch directory:
//
//	/public/<layout path>
//	/protected/<layout path>
//	/.tmp/
type FSStore struct {
	fs     afero.Fs
	layout Layout
	config Config
	locks  *xlock.Keyed
	grants *Grants

	// digests memoizes the hash of stored originals by path.
	digests xcache.Cache[fileDigest]
}

// NewFSStore returns a store writing into fs.
func NewFSStore(fsys afero.Fs, config Config) *FSStore {
	var layout Layout = HashLayout{}
	if config.LegacyFilenames {
		layout = LegacyLayout{}
	}
	if config.DefaultVisibility == asset.Absent {
		config.DefaultVisibility = asset.Protected
	}
	return &FSStore{
		fs:      fsys,
		layout:  layout,
		config:  config,
		locks:   xlock.NewKeyed(),
		grants:  NewGrants(),
		digests: xcache.NewMemory[fileDigest](),
	}
}

// NewOSStore returns a store rooted at the root directory of the local disk.
func NewOSStore(root string, config Config) (*FSStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), abs), config), nil
}

// Layout returns the path layout of the store.
func (s *FSStore) Layout() Layout {
	return s.layout
}

// Grants returns the grant table of the store.
func (s *FSStore) Grants() *Grants {
	return s.grants
}

// entrySet is the original and the variants of one content version found in
// one directory.
type entrySet struct {
	visibility asset.Visibility
	// dir is the absolute directory in the filesystem.
	dir  string
	base string
	// hash is the digest of the original.
	hash     string
	variants []string
}

func (e *entrySet) path(variant string) string {
	return path.Join(e.dir, asset.VariantName(e.base, variant))
}

func (e *entrySet) ref(filename string) asset.Ref {
	return asset.Ref{Filename: filename, Hash: e.hash}
}

// names returns the variants first and the original last, so an interrupted
// transfer always leaves the original behind in the source.
func (e *entrySet) names() []string {
	return append(lo.Filter(e.variants, func(v string, _ int) bool { return v != "" }), "")
}

func partitionRoot(v asset.Visibility) string {
	if v == asset.Public {
		return publicRoot
	}
	return protectedRoot
}

// partitions returns both partitions, first one first.
func partitions(first asset.Visibility) []asset.Visibility {
	if first == asset.Public {
		return []asset.Visibility{asset.Public, asset.Protected}
	}
	return []asset.Visibility{asset.Protected, asset.Public}
}

func (s *FSStore) absDir(v asset.Visibility, ref asset.Ref) string {
	return path.Join(partitionRoot(v), s.layout.Dir(ref))
}

// dirs returns the directories of partition v that may hold ref. Legacy
// layouts park a second version of a filename in its hash bucket.
func (s *FSStore) dirs(v asset.Visibility, ref asset.Ref) []string {
	dirs := []string{s.absDir(v, ref)}
	if s.layout.Legacy() {
		dirs = append(dirs, path.Join(partitionRoot(v), HashLayout{}.Dir(ref)))
	}
	return dirs
}

// scan lists the original base and its variants in the directory. It
// returns nil if the original is missing.
func (s *FSStore) scan(v asset.Visibility, dir, base string) (*entrySet, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	set := &entrySet{visibility: v, dir: dir, base: base}
	found := false
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		if name == base {
			found = true
			continue
		}
		b, variant, err := asset.SplitVariantName(name)
		if err == nil && variant != "" && b == base {
			set.variants = append(set.variants, variant)
		}
	}
	if !found {
		return nil, nil
	}
	set.variants = append(set.variants, "")
	return set, nil
}

// load scans the directory and digests the original found there.
func (s *FSStore) load(v asset.Visibility, dir, base string) (*entrySet, error) {
	set, err := s.scan(v, dir, base)
	if err != nil || set == nil {
		return nil, err
	}
	if set.hash, err = s.hashOf(set.path("")); err != nil {
		return nil, err
	}
	return set, nil
}

// find returns the content version ref stored in partition v. Buckets are
// named after a hash prefix, so the full digest of the original decides.
func (s *FSStore) find(v asset.Visibility, ref asset.Ref) (*entrySet, error) {
	for _, dir := range s.dirs(v, ref) {
		set, err := s.load(v, dir, path.Base(ref.Filename))
		if err != nil {
			return nil, err
		}
		if set != nil && set.hash == ref.Hash {
			return set, nil
		}
	}
	return nil, nil
}

// locate returns the content version ref in whichever partition holds it.
func (s *FSStore) locate(ref asset.Ref) (*entrySet, error) {
	for _, v := range partitions(asset.Public) {
		set, err := s.find(v, ref)
		if err != nil || set != nil {
			return set, err
		}
	}
	return nil, nil
}

// versions returns every content version of filename stored in partition v.
func (s *FSStore) versions(v asset.Visibility, filename string) ([]*entrySet, error) {
	base := path.Base(filename)
	parent := path.Join(partitionRoot(v), path.Dir(filename))
	var sets []*entrySet
	if s.layout.Legacy() {
		set, err := s.load(v, parent, base)
		if err != nil {
			return nil, err
		}
		if set != nil {
			sets = append(sets, set)
		}
	}
	infos, err := afero.ReadDir(s.fs, parent)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sets, nil
		}
		return nil, err
	}
	for _, info := range infos {
		if !info.IsDir() || !isBucket(info.Name()) {
			continue
		}
		set, err := s.load(v, path.Join(parent, info.Name()), base)
		if err != nil {
			return nil, err
		}
		if set != nil && bucket(set.hash) == info.Name() {
			sets = append(sets, set)
		}
	}
	return sets, nil
}

// occupants returns the other content versions holding the physical name
// ref would be written to, the ones of partition v first. Legacy layouts
// share one name across every version of a filename.
func (s *FSStore) occupants(ref asset.Ref, v asset.Visibility) ([]*entrySet, error) {
	var sets []*entrySet
	for _, p := range partitions(v) {
		if s.layout.Legacy() {
			versions, err := s.versions(p, ref.Filename)
			if err != nil {
				return nil, err
			}
			sets = append(sets, versions...)
			continue
		}
		set, err := s.load(p, s.absDir(p, ref), path.Base(ref.Filename))
		if err != nil {
			return nil, err
		}
		if set != nil {
			sets = append(sets, set)
		}
	}
	return lo.Reject(sets, func(set *entrySet, _ int) bool { return set.hash == ref.Hash }), nil
}

// slot returns the directory of partition v to place ref into.
func (s *FSStore) slot(v asset.Visibility, ref asset.Ref) (string, error) {
	for _, dir := range s.dirs(v, ref) {
		occupant, err := s.load(v, dir, path.Base(ref.Filename))
		if err != nil {
			return "", err
		}
		if occupant == nil || occupant.hash == ref.Hash {
			return dir, nil
		}
	}
	return "", errdefs.Newf(errdefs.ErrConflict, "no free slot for %s in %s partition", ref, v)
}

// fileDigest is a digest computed for one file state.
type fileDigest struct {
	size    int64
	modTime time.Time
	hash    string
}

func (s *FSStore) hashOf(name string) (string, error) {
	fi, err := s.fs.Stat(name)
	if err != nil {
		return "", err
	}
	ctx := context.Background()
	if cached, ok := s.digests.Get(ctx, name); ok && cached.size == fi.Size() && cached.modTime.Equal(fi.ModTime()) {
		return cached.hash, nil
	}
	f, err := s.fs.Open(name)
	if err != nil {
		return "", err
	}
	defer xio.CloseAndSkipError(f)
	hash, err := asset.Digest(f)
	if err != nil {
		return "", err
	}
	s.digests.Set(ctx, name, fileDigest{size: fi.Size(), modTime: fi.ModTime(), hash: hash})
	return hash, nil
}

// transfer moves (or copies when keep is set) every entry of set into dir
// renaming the base name to base.
func (s *FSStore) transfer(set *entrySet, v asset.Visibility, dir, base string, keep bool) error {
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, variant := range set.names() {
		src := set.path(variant)
		dst := path.Join(dir, asset.VariantName(base, variant))
		if src == dst {
			continue
		}
		if keep {
			if err := s.copyFile(src, dst); err != nil {
				return err
			}
			continue
		}
		if err := s.removeIfExists(dst); err != nil {
			return err
		}
		if err := s.fs.Rename(src, dst); err != nil {
			return err
		}
		s.digests.Delete(context.Background(), src)
	}
	if !keep {
		s.prune(set.dir)
	}
	set.visibility, set.dir, set.base = v, dir, base
	return nil
}

func (s *FSStore) copyFile(src, dst string) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer xio.CloseAndSkipError(in)
	tmp, err := s.tempFile("copy-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		xio.CloseAndSkipError(tmp)
		_ = s.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(name)
		return err
	}
	if err := s.removeIfExists(dst); err != nil {
		return err
	}
	return s.fs.Rename(name, dst)
}

// remove deletes every entry of set.
func (s *FSStore) remove(set *entrySet) error {
	for _, variant := range set.names() {
		if err := s.removeIfExists(set.path(variant)); err != nil {
			return err
		}
	}
	s.prune(set.dir)
	return nil
}

func (s *FSStore) removeIfExists(name string) error {
	s.digests.Delete(context.Background(), name)
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// prune removes the empty directories from dir up to the partition root.
func (s *FSStore) prune(dir string) {
	for dir != "/" && dir != publicRoot && dir != protectedRoot && dir != tempRoot {
		empty, err := afero.IsEmpty(s.fs, dir)
		if err != nil || !empty {
			return
		}
		if err := s.fs.Remove(dir); err != nil {
			return
		}
		dir = path.Dir(dir)
	}
}

func (s *FSStore) tempFile(pattern string) (afero.File, error) {
	if err := s.fs.MkdirAll(tempRoot, 0o755); err != nil {
		return nil, err
	}
	return afero.TempFile(s.fs, tempRoot, pattern)
}

// spool writes r into a temporary file and returns its name and digest.
func (s *FSStore) spool(r io.Reader) (string, string, error) {
	tmp, err := s.tempFile("write-*")
	if err != nil {
		return "", "", err
	}
	name := tmp.Name()
	digester := asset.NewDigester()
	if _, err := io.Copy(io.MultiWriter(tmp, digester.Hash()), r); err != nil {
		xio.CloseAndSkipError(tmp)
		_ = s.fs.Remove(name)
		return "", "", err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(name)
		return "", "", err
	}
	return name, digester.Digest().Encoded(), nil
}

func (s *FSStore) policy(p ConflictPolicy) ConflictPolicy {
	if p != ConflictDefault {
		return p
	}
	if s.layout.Legacy() {
		return ConflictRename
	}
	return ConflictOverwrite
}

// Write implements Store.
func (s *FSStore) Write(ctx context.Context, r io.Reader, filename string, options ...WriteOption) (asset.Key, error) {
	if err := xcontext.NonBlockingCheck(ctx, "write"); err != nil {
		return asset.Key{}, err
	}
	o := MakeWriteOptions(options...)
	if err := asset.ValidateFilename(filename); err != nil {
		return asset.Key{}, err
	}
	if o.Variant != "" {
		if !asset.ValidVariant(o.Variant) {
			return asset.Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant %q", o.Variant)
		}
		if !asset.ValidHash(o.Hash) {
			return asset.Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "variant %q requires the hash of the original", o.Variant)
		}
	}

	tmp, contentHash, err := s.spool(r)
	if err != nil {
		return asset.Key{}, fmt.Errorf("unable to spool %s: %w", filename, err)
	}
	defer func() { _ = s.removeIfExists(tmp) }()

	if o.Variant != "" {
		return s.writeVariant(ctx, tmp, contentHash, asset.NewKey(filename, o.Hash, o.Variant), s.policy(o.Conflict))
	}
	if o.Hash != "" && o.Hash != contentHash {
		return asset.Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "hash %s does not match content hash %s", o.Hash, contentHash)
	}
	visibility := o.Visibility
	if visibility == asset.Absent {
		visibility = s.config.DefaultVisibility
	}

	ref := asset.Ref{Filename: filename, Hash: contentHash}
	for {
		unlock := s.locks.Lock(ref.Filename)
		key, next, err := s.writeOriginal(tmp, ref, visibility, s.policy(o.Conflict))
		unlock()
		if err != nil || next == "" {
			if err == nil {
				xlog.C(ctx).Debug("asset written", "filename", key.Filename, "hash", key.Hash)
			}
			return key, err
		}
		ref.Filename = next
	}
}

// writeOriginal places the spooled content. It returns the next filename to
// try when the conflict policy renames.
func (s *FSStore) writeOriginal(tmp string, ref asset.Ref, v asset.Visibility, policy ConflictPolicy) (asset.Key, string, error) {
	existing, err := s.locate(ref)
	if err != nil {
		return asset.Key{}, "", err
	}
	if existing != nil {
		return ref.Key(), "", nil
	}
	occupants, err := s.occupants(ref, v)
	if err != nil {
		return asset.Key{}, "", err
	}
	if len(occupants) > 0 {
		occupant := occupants[0]
		switch policy {
		case ConflictRename:
			return asset.Key{}, nextVersionName(ref.Filename), nil
		case ConflictUseExisting:
			return occupant.ref(ref.Filename).Key(), "", nil
		case ConflictException:
			return asset.Key{}, "", errdefs.Newf(errdefs.ErrConflict, "%s already holds content %s", ref.Filename, occupant.hash)
		default:
			target := s.absDir(v, ref)
			for _, o := range occupants {
				if o.dir != target {
					continue
				}
				if err := s.remove(o); err != nil {
					return asset.Key{}, "", err
				}
			}
		}
	}
	dir, err := s.slot(v, ref)
	if err != nil {
		return asset.Key{}, "", err
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return asset.Key{}, "", err
	}
	if err := s.fs.Rename(tmp, path.Join(dir, path.Base(ref.Filename))); err != nil {
		return asset.Key{}, "", err
	}
	return ref.Key(), "", nil
}

func (s *FSStore) writeVariant(ctx context.Context, tmp, contentHash string, key asset.Key, policy ConflictPolicy) (asset.Key, error) {
	unlock := s.locks.Lock(key.Filename)
	defer unlock()

	set, err := s.locate(key.Ref())
	if err != nil {
		return asset.Key{}, err
	}
	if set == nil {
		return asset.Key{}, errdefs.Newf(errdefs.ErrNotFound, "original of variant %s", key)
	}
	dst := set.path(key.Variant)
	if lo.Contains(set.variants, key.Variant) {
		existing, err := s.hashOf(dst)
		if err != nil {
			return asset.Key{}, err
		}
		if existing == contentHash {
			return key, nil
		}
		switch policy {
		case ConflictUseExisting, ConflictRename:
			return key, nil
		case ConflictException:
			return asset.Key{}, errdefs.Newf(errdefs.ErrConflict, "variant %s already holds different content", key)
		}
		if err := s.removeIfExists(dst); err != nil {
			return asset.Key{}, err
		}
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		return asset.Key{}, err
	}
	xlog.C(ctx).Debug("asset variant written", "filename", key.Filename, "hash", key.Hash, "variant", key.Variant)
	return key, nil
}

// Read implements Store.
func (s *FSStore) Read(ctx context.Context, key asset.Key) (io.ReadCloser, error) {
	if err := xcontext.NonBlockingCheck(ctx, "read"); err != nil {
		return nil, err
	}
	unlock := s.locks.RLock(key.Filename)
	defer unlock()

	set, err := s.locateKey(key)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(set.path(key.Variant))
}

// Stat implements Store.
func (s *FSStore) Stat(ctx context.Context, key asset.Key) (Info, error) {
	if err := xcontext.NonBlockingCheck(ctx, "stat"); err != nil {
		return Info{}, err
	}
	unlock := s.locks.RLock(key.Filename)
	defer unlock()

	set, err := s.locateKey(key)
	if err != nil {
		return Info{}, err
	}
	fi, err := s.fs.Stat(set.path(key.Variant))
	if err != nil {
		return Info{}, err
	}
	return Info{Key: key, Size: fi.Size(), ModTime: fi.ModTime(), Visibility: set.visibility}, nil
}

func (s *FSStore) locateKey(key asset.Key) (*entrySet, error) {
	set, err := s.locate(key.Ref())
	if err != nil {
		return nil, err
	}
	if set == nil || !lo.Contains(set.variants, key.Variant) {
		return nil, errdefs.Newf(errdefs.ErrNotFound, "asset %s", key)
	}
	return set, nil
}

// Exists implements Store.
func (s *FSStore) Exists(ctx context.Context, key asset.Key) (bool, error) {
	if err := xcontext.NonBlockingCheck(ctx, "exists"); err != nil {
		return false, err
	}
	unlock := s.locks.RLock(key.Filename)
	defer unlock()

	set, err := s.locate(key.Ref())
	if err != nil || set == nil {
		return false, err
	}
	return lo.Contains(set.variants, key.Variant), nil
}

// Visibility implements Store.
func (s *FSStore) Visibility(ctx context.Context, filename, hash string) (asset.Visibility, error) {
	if err := xcontext.NonBlockingCheck(ctx, "visibility"); err != nil {
		return asset.Absent, err
	}
	unlock := s.locks.RLock(filename)
	defer unlock()
	return s.visibility(asset.Ref{Filename: filename, Hash: hash})
}

func (s *FSStore) visibility(ref asset.Ref) (asset.Visibility, error) {
	set, err := s.locate(ref)
	if err != nil || set == nil {
		return asset.Absent, err
	}
	return set.visibility, nil
}

// Delete implements Store.
func (s *FSStore) Delete(ctx context.Context, filename, hash string) error {
	if err := xcontext.NonBlockingCheck(ctx, "delete"); err != nil {
		return err
	}
	ref := asset.Ref{Filename: filename, Hash: hash}
	unlock := s.locks.Lock(filename)
	defer unlock()

	for _, v := range []asset.Visibility{asset.Public, asset.Protected} {
		set, err := s.find(v, ref)
		if err != nil {
			return err
		}
		if set == nil {
			continue
		}
		if err := s.remove(set); err != nil {
			return fmt.Errorf("unable to delete %s: %w", ref, err)
		}
		xlog.C(ctx).Debug("asset deleted", "filename", filename, "hash", hash, "visibility", v)
	}
	s.grants.Forget(ref)
	return nil
}

// Publish implements Store.
func (s *FSStore) Publish(ctx context.Context, filename, hash string) error {
	return s.moveTo(ctx, asset.Ref{Filename: filename, Hash: hash}, asset.Public)
}

// Protect implements Store.
func (s *FSStore) Protect(ctx context.Context, filename, hash string) error {
	return s.moveTo(ctx, asset.Ref{Filename: filename, Hash: hash}, asset.Protected)
}

func (s *FSStore) moveTo(ctx context.Context, ref asset.Ref, target asset.Visibility) error {
	if err := xcontext.NonBlockingCheck(ctx, "move"); err != nil {
		return err
	}
	unlock := s.locks.Lock(ref.Filename)
	defer unlock()

	set, err := s.locate(ref)
	if err != nil {
		return err
	}
	if set == nil {
		return errdefs.Newf(errdefs.ErrNotFound, "asset %s", ref)
	}
	if set.visibility == target {
		return nil
	}
	dir, err := s.slot(target, ref)
	if err != nil {
		return err
	}
	if err := s.transfer(set, target, dir, set.base, false); err != nil {
		return fmt.Errorf("unable to move %s to %s partition: %w", ref, target, err)
	}
	xlog.C(ctx).Debug("asset moved", "filename", ref.Filename, "hash", ref.Hash, "visibility", target)
	return nil
}

// SwapPublish implements Store. The filename lock is held for the whole
// swap, so readers observe either the previous or the new public version.
func (s *FSStore) SwapPublish(ctx context.Context, filename, hash string) error {
	if err := xcontext.NonBlockingCheck(ctx, "swap publish"); err != nil {
		return err
	}
	ref := asset.Ref{Filename: filename, Hash: hash}
	unlock := s.locks.Lock(filename)
	defer unlock()

	set, err := s.locate(ref)
	if err != nil {
		return err
	}
	if set == nil {
		return errdefs.Newf(errdefs.ErrNotFound, "asset %s", ref)
	}
	public, err := s.versions(asset.Public, filename)
	if err != nil {
		return err
	}
	others := lo.Reject(public, func(other *entrySet, _ int) bool { return other.hash == ref.Hash })

	// demote first so the public name is free for the promoted version
	for _, other := range others {
		dir, err := s.slot(asset.Protected, other.ref(filename))
		if err != nil {
			return err
		}
		if err := s.transfer(other, asset.Protected, dir, other.base, false); err != nil {
			return fmt.Errorf("unable to demote %s: %w", other.path(""), err)
		}
	}
	if set.visibility != asset.Public {
		dir, err := s.slot(asset.Public, ref)
		if err != nil {
			return err
		}
		if err := s.transfer(set, asset.Public, dir, set.base, false); err != nil {
			return fmt.Errorf("unable to publish %s: %w", ref, err)
		}
	}
	xlog.C(ctx).Debug("asset swap published", "filename", filename, "hash", hash, "demoted", len(others))
	return nil
}

// Rename implements Store.
func (s *FSStore) Rename(ctx context.Context, filename, hash, newFilename string) (string, error) {
	return s.relocate(ctx, asset.Ref{Filename: filename, Hash: hash}, newFilename, false)
}

// Copy implements Store.
func (s *FSStore) Copy(ctx context.Context, filename, hash, newFilename string) (string, error) {
	return s.relocate(ctx, asset.Ref{Filename: filename, Hash: hash}, newFilename, true)
}

func (s *FSStore) relocate(ctx context.Context, ref asset.Ref, target string, keep bool) (string, error) {
	if err := xcontext.NonBlockingCheck(ctx, "relocate"); err != nil {
		return "", err
	}
	if err := asset.ValidateFilename(target); err != nil {
		return "", err
	}
	if target == ref.Filename {
		return target, nil
	}
	for {
		unlock := s.lockPair(ref.Filename, target)
		next, err := s.relocateTo(ref, target, keep)
		unlock()
		if err != nil {
			return "", err
		}
		if next == "" {
			xlog.C(ctx).Debug("asset relocated", "filename", ref.Filename, "hash", ref.Hash, "target", target, "copy", keep)
			if !keep {
				s.grants.Forget(ref)
			}
			return target, nil
		}
		target = next
	}
}

// relocateTo moves or copies ref to target, returning the next candidate
// name when target is taken by different content.
func (s *FSStore) relocateTo(ref asset.Ref, target string, keep bool) (string, error) {
	set, err := s.locate(ref)
	if err != nil {
		return "", err
	}
	if set == nil {
		return "", errdefs.Newf(errdefs.ErrNotFound, "asset %s", ref)
	}
	dst := asset.Ref{Filename: target, Hash: ref.Hash}
	existing, err := s.locate(dst)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if keep {
			return "", nil
		}
		return "", s.remove(set)
	}
	occupants, err := s.occupants(dst, set.visibility)
	if err != nil {
		return "", err
	}
	if len(occupants) > 0 {
		return nextVersionName(target), nil
	}
	dir, err := s.slot(set.visibility, dst)
	if err != nil {
		return "", err
	}
	return "", s.transfer(set, set.visibility, dir, path.Base(target), keep)
}

func (s *FSStore) lockPair(a, b string) func() {
	if a == b {
		return s.locks.Lock(a)
	}
	if a > b {
		a, b = b, a
	}
	unlockA := s.locks.Lock(a)
	unlockB := s.locks.Lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}

// Grant implements Store. Granting public content is a no-op.
func (s *FSStore) Grant(ctx context.Context, filename, hash string) error {
	ref := asset.Ref{Filename: filename, Hash: hash}
	v, err := s.Visibility(ctx, filename, hash)
	if err != nil {
		return err
	}
	switch v {
	case asset.Public:
		return nil
	case asset.Absent:
		return errdefs.Newf(errdefs.ErrNotFound, "asset %s", ref)
	}
	session, ok := SessionFromContext(ctx)
	if !ok {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "no viewer session to grant %s", ref)
	}
	s.grants.Grant(session, ref)
	return nil
}

// Revoke implements Store. Revoking public content is a no-op.
func (s *FSStore) Revoke(ctx context.Context, filename, hash string) error {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return nil
	}
	s.grants.Revoke(session, asset.Ref{Filename: filename, Hash: hash})
	return nil
}

// CanView implements Store.
func (s *FSStore) CanView(ctx context.Context, filename, hash string) (bool, error) {
	v, err := s.Visibility(ctx, filename, hash)
	if err != nil {
		return false, err
	}
	switch v {
	case asset.Public:
		return true, nil
	case asset.Protected:
		session, ok := SessionFromContext(ctx)
		return ok && s.grants.Has(session, asset.Ref{Filename: filename, Hash: hash}), nil
	}
	return false, nil
}

// nextVersionName returns "name-v2.ext" for "name.ext" and "name-v3.ext" for
// "name-v2.ext".
func nextVersionName(filename string) string {
	dir, base := path.Split(filename)
	name, ext := asset.SplitExt(base)
	version := 2
	if m := versionSuffixPattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			name, version = m[1], n+1
		}
	}
	return dir + name + "-v" + strconv.Itoa(version) + ext
}
