package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildDoesNotAutoVivify(t *testing.T) {
	n := New()
	assert.Nil(t, n.Child("regions"))
}

func TestCreateThenAttach(t *testing.T) {
	n := New()
	regions := n.Create("regions", "Alpha")
	regions.Attach("ticker", "Alpha_ticker")

	got, ok := n.Create("regions", "Alpha").Get("ticker")
	require := assert.New(t)
	require.True(ok)
	require.Equal("Alpha_ticker", got)
}

func TestCreateIsIdempotent(t *testing.T) {
	n := New()
	a := n.Create("x", "y")
	b := n.Create("x", "y")
	assert.Same(t, a, b)
}

func TestChildNamesAndKeys(t *testing.T) {
	n := New()
	n.Create("a")
	n.Create("b")
	n.Attach("k1", 1)

	assert.ElementsMatch(t, []string{"a", "b"}, n.ChildNames())
	assert.ElementsMatch(t, []string{"k1"}, n.Keys())
}
