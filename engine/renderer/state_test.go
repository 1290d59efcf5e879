package renderer

import (
	"testing"

	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestStencilTestReferenceOnTheLeft(t *testing.T) {
	cases := []struct {
		test   StencilTest
		ref    uint8
		stored uint8
		passes bool
	}{
		{StencilTestNever, 1, 1, false},
		{StencilTestAlways, 1, 2, true},
		{StencilTestEqualTo, 1, 1, true},
		{StencilTestEqualTo, 1, 0, false},
		{StencilTestNotEqualTo, 1, 0, true},
		{StencilTestLessThan, 1, 2, true},
		{StencilTestLessThan, 2, 1, false},
		{StencilTestLessThanOrEqualTo, 2, 2, true},
		{StencilTestGreaterThan, 2, 1, true},
		{StencilTestGreaterThanOrEqualTo, 1, 2, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.passes, c.test.Passes(c.ref, c.stored), "%d: ref %d stored %d", c.test, c.ref, c.stored)
	}
}

func TestStencilActionApply(t *testing.T) {
	assert.Equal(t, uint8(5), StencilActionKeep.Apply(1, 5))
	assert.Equal(t, uint8(0), StencilActionZero.Apply(1, 5))
	assert.Equal(t, uint8(1), StencilActionReplace.Apply(1, 5))
	assert.Equal(t, uint8(255), StencilActionIncrement.Apply(0, 255))
	assert.Equal(t, uint8(0), StencilActionIncrementWrap.Apply(0, 255))
	assert.Equal(t, uint8(0), StencilActionDecrement.Apply(0, 0))
	assert.Equal(t, uint8(255), StencilActionDecrementWrap.Apply(0, 0))
	assert.Equal(t, uint8(0xF0), StencilActionInvert.Apply(0, 0x0F))
}

func TestStencilConstructors(t *testing.T) {
	assert.False(t, StencilDisabled().Enabled())
	w := StencilWrite(StencilActionReplace, 3)
	assert.Equal(t, STENCIL_MODE_WRITE, w.Mode)
	assert.Equal(t, StencilTestAlways, w.Test)
	r := StencilRead(StencilTestEqualTo, 3)
	assert.Equal(t, STENCIL_MODE_READ, r.Mode)
	assert.Equal(t, StencilActionKeep, r.Action)
	assert.Equal(t, "Disabled", StencilDisabled().String())
}

func TestDeclaredOffsetCapacity(t *testing.T) {
	assert.Equal(t, 64, declaredOffsetCapacity(DefaultVertexShader(64)))
	assert.Equal(t, 12, declaredOffsetCapacity("uniform  vec2 u_offsets [ 12 ];"))
	assert.Zero(t, declaredOffsetCapacity("uniform vec2 u_other[12];"))
	assert.Zero(t, declaredOffsetCapacity(""))
}

func TestNineSliceGeometrySkipsEmptyCells(t *testing.T) {
	tex := &Texture{width: 12, height: 12}
	config := NineSliceWithBorder(math.NewRectangle(0, 0, 12, 12), 4)

	vertices, indices := tex.nineSliceGeometry(config, 20, 20)
	assert.Len(t, vertices, 9*4)
	assert.Len(t, indices, 9*6)

	// at the minimum size the centre row and column collapse
	vertices, _ = tex.nineSliceGeometry(config, 8, 8)
	assert.Len(t, vertices, 4*4)
	vertices, _ = tex.nineSliceGeometry(config, 1, 1)
	assert.Len(t, vertices, 4*4)
	assert.Equal(t, float32(8), vertices[len(vertices)-2].Position.X)
}
