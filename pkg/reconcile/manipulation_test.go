package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/reconcile"
)

var (
	h1 = asset.Ref{Filename: "pets/dog.jpg", Hash: "1111111111aaaa"}
	h2 = asset.Ref{Filename: "pets/dog.jpg", Hash: "2222222222bbbb"}
	h3 = asset.Ref{Filename: "pets/cat.jpg", Hash: "3333333333cccc"}
)

func TestManipulationList_Precedence(t *testing.T) {
	tests := []struct {
		name         string
		observations []reconcile.State
		want         reconcile.State
	}{
		{name: "deleted only", observations: []reconcile.State{reconcile.Deleted}, want: reconcile.Deleted},
		{name: "protected overrides deleted", observations: []reconcile.State{reconcile.Deleted, reconcile.Protected}, want: reconcile.Protected},
		{name: "deleted does not override protected", observations: []reconcile.State{reconcile.Protected, reconcile.Deleted}, want: reconcile.Protected},
		{name: "public overrides protected", observations: []reconcile.State{reconcile.Protected, reconcile.Public}, want: reconcile.Public},
		{name: "protected does not override public", observations: []reconcile.State{reconcile.Public, reconcile.Protected}, want: reconcile.Public},
		{name: "all", observations: []reconcile.State{reconcile.Deleted, reconcile.Public, reconcile.Protected, reconcile.Deleted}, want: reconcile.Public},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list := reconcile.NewManipulationList()
			for _, state := range tc.observations {
				list.Observe(h1, state)
			}
			got, ok := list.State(h1)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, list.Len())
		})
	}
}

func TestManipulationList_Entries(t *testing.T) {
	list := reconcile.NewManipulationList()
	list.ObserveAll([]asset.Ref{h2, h1}, reconcile.Deleted)
	list.Observe(h3, reconcile.Protected)
	list.Observe(h1, reconcile.Public)

	assert.Equal(t, []reconcile.Entry{
		{Ref: h2, State: reconcile.Deleted},
		{Ref: h1, State: reconcile.Public},
		{Ref: h3, State: reconcile.Protected},
	}, list.Entries())

	other := reconcile.NewManipulationList()
	other.Observe(h2, reconcile.Protected)
	other.Observe(h3, reconcile.Deleted)
	list.Merge(other)

	state, _ := list.State(h2)
	assert.Equal(t, reconcile.Protected, state)
	state, _ = list.State(h3)
	assert.Equal(t, reconcile.Protected, state)
	_, ok := list.State(asset.Ref{Filename: "missing", Hash: "0000000000"})
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "deleted", reconcile.Deleted.String())
	assert.Equal(t, "protected", reconcile.Protected.String())
	assert.Equal(t, "public", reconcile.Public.String())
	assert.Equal(t, "state(9)", reconcile.State(9).String())
}
