package abruijn

import (
	"testing"

	"github.com/mudesheng/lga/bnt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSide(t *testing.T) {
	assert.Equal(t, Right, readSide(true, true))
	assert.Equal(t, Left, readSide(true, false))
	assert.Equal(t, Left, readSide(false, true))
	assert.Equal(t, Right, readSide(false, false))
	assert.True(t, Both.Has(Right))
	assert.False(t, Both.OneSided())
	assert.Equal(t, "left", Left.String())
}

func tipBuilder(t *testing.T) *Builder {
	b, _ := newTestBuilder(t, 3, DefaultOptions())
	b.TakeAllKmers("ACC")
	b.TakeAllKmers("GTA")
	return b
}

func TestResolveTips(t *testing.T) {
	for _, s := range []bnt.Seq{"ACCGTAA", bnt.Seq("ACCGTAA").Complement()} {
		b := tipBuilder(t)
		hACC, hGTA, hTAA := hashOf(b, "ACC"), hashOf(b, "GTA"), hashOf(b, "TAA")

		assert.Equal(t, 1, b.ResolveTips([]bnt.Seq{s}), "read %s", s)
		d, ok := b.IsTip(hACC)
		require.True(t, ok)
		assert.Equal(t, Right, d)
		d, ok = b.IsTip(hGTA)
		require.True(t, ok)
		assert.Equal(t, Left, d)

		assert.Empty(t, b.TipExtensions(hACC))
		assert.Equal(t, []TipExtension{{Hash: hTAA, Dist: 1}}, b.TipExtensions(hGTA))

		d, ok = b.HasRight(hTAA)
		require.True(t, ok)
		assert.Equal(t, Left, d)
		_, ok = b.HasRight(hashOf(b, "CCG"))
		assert.False(t, ok)
		// tip annotation never touches the graph
		assert.Zero(t, b.Graph().VertexCount())
	}
}

func TestRevealTipsBothSides(t *testing.T) {
	b := tipBuilder(t)
	b.TakeAllKmers("CGT")
	b.RevealTips("ACCGTA")
	d, _ := b.HasRight(hashOf(b, "CGT"))
	assert.Equal(t, Both, d)
	assert.Equal(t, 2, b.CollectTips())
	_, ok := b.IsTip(hashOf(b, "CGT"))
	assert.False(t, ok)
}

func TestSingleLandmarkReadIsNotTip(t *testing.T) {
	b := tipBuilder(t)
	b.RevealTips("AACCT")
	_, ok := b.HasRight(hashOf(b, "ACC"))
	assert.False(t, ok)
	assert.Zero(t, b.CollectTips())
}

func TestFinalizeClearsTips(t *testing.T) {
	b := tipBuilder(t)
	b.ResolveTips([]bnt.Seq{"ACCGTAA"})
	st := b.Finalize()
	assert.Equal(t, 2, st.Tips)
	assert.Equal(t, 1, st.TipExtensions)
	_, ok := b.IsTip(hashOf(b, "ACC"))
	assert.False(t, ok)
	assert.True(t, b.IsLandmark(hashOf(b, "ACC")))
}
