package asset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
)

func TestEncodeVariant(t *testing.T) {
	got, err := asset.EncodeVariant("Fit", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "Fit-bcoj0c1c64o30n8", got)

	got, err = asset.EncodeVariant("Grayscale")
	require.NoError(t, err)
	assert.Equal(t, "Grayscale", got)

	got, err = asset.EncodeVariant("Convert", "webp")
	require.NoError(t, err)
	assert.Equal(t, "Convert-bch7epb2e0h5q", got)
	assert.False(t, strings.ContainsAny(got, "_."))

	_, err = asset.EncodeVariant("bad-name", 1)
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
}

func TestDecodeVariant(t *testing.T) {
	fit, err := asset.EncodeVariant("Fit", 100, 50)
	require.NoError(t, err)
	convert, err := asset.EncodeVariant("Convert", "png")
	require.NoError(t, err)

	segments, err := asset.DecodeVariant(asset.ChainVariant(fit, convert))
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "Fit", segments[0].Operation)
	assert.Equal(t, []any{float64(100), float64(50)}, segments[0].Args)
	assert.Equal(t, "Convert", segments[1].Operation)
	assert.Equal(t, []any{"png"}, segments[1].Args)

	_, err = asset.DecodeVariant("Fit-zz")
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
}

func TestChainVariant(t *testing.T) {
	assert.Equal(t, "A", asset.ChainVariant("", "A"))
	assert.Equal(t, "A", asset.ChainVariant("A", ""))
	assert.Equal(t, "A_B", asset.ChainVariant("A", "B"))
	assert.True(t, asset.ValidVariant(asset.ChainVariant("A", "B")))
}

func TestVisibility(t *testing.T) {
	for _, v := range []asset.Visibility{asset.Absent, asset.Protected, asset.Public} {
		text, err := v.MarshalText()
		require.NoError(t, err)
		var parsed asset.Visibility
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, v, parsed)
	}
	_, err := asset.ParseVisibility("secret")
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
}

func TestDigest(t *testing.T) {
	got, err := asset.Digest(strings.NewReader("dog"))
	require.NoError(t, err)
	assert.Equal(t, dogHash, got)
	assert.Equal(t, dogHash, asset.DigestBytes([]byte("dog")))
	assert.True(t, asset.ValidHash(got))

	same, err := asset.SameContent(strings.NewReader("a"), strings.NewReader("a"))
	require.NoError(t, err)
	assert.True(t, same)
}
