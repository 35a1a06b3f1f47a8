package store

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/wuxler/ruasset/pkg/asset"
)

type sessionKey struct{}

// WithSession returns a child context carrying the viewer session id.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the viewer session id of ctx.
func SessionFromContext(ctx context.Context) (string, bool) {
	session, ok := ctx.Value(sessionKey{}).(string)
	return session, ok && session != ""
}

// Grants records which sessions may view which protected content.
type Grants struct {
	sessions *xsync.MapOf[string, *xsync.MapOf[asset.Ref, struct{}]]
}

// NewGrants returns an empty grant table.
func NewGrants() *Grants {
	return &Grants{sessions: xsync.NewMapOf[string, *xsync.MapOf[asset.Ref, struct{}]]()}
}

// Grant allows session to view ref.
func (g *Grants) Grant(session string, ref asset.Ref) {
	refs, _ := g.sessions.LoadOrCompute(session, func() *xsync.MapOf[asset.Ref, struct{}] {
		return xsync.NewMapOf[asset.Ref, struct{}]()
	})
	refs.Store(ref, struct{}{})
}

// Revoke removes the grant of session on ref.
func (g *Grants) Revoke(session string, ref asset.Ref) {
	if refs, ok := g.sessions.Load(session); ok {
		refs.Delete(ref)
	}
}

// Has reports whether session holds a grant on ref.
func (g *Grants) Has(session string, ref asset.Ref) bool {
	refs, ok := g.sessions.Load(session)
	if !ok {
		return false
	}
	_, ok = refs.Load(ref)
	return ok
}

// Forget drops every grant on ref, e.g. after the content was deleted.
func (g *Grants) Forget(ref asset.Ref) {
	g.sessions.Range(func(_ string, refs *xsync.MapOf[asset.Ref, struct{}]) bool {
		refs.Delete(ref)
		return true
	})
}

// EndSession drops every grant of session.
func (g *Grants) EndSession(session string) {
	g.sessions.Delete(session)
}
