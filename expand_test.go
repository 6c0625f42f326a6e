package groupgate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupgate/groupgate"
)

func mkGroup(t *testing.T, display string) groupgate.Group {
	t.Helper()
	g, err := groupgate.NewGroup(display, groupgate.TypeFeature, groupgate.WithID(uuid.New()))
	require.NoError(t, err)
	return g
}

func TestExpandChain(t *testing.T) {
	a := mkGroup(t, "A")
	b := mkGroup(t, "B")
	c := mkGroup(t, "C")

	src := groupgate.NewStaticSource()
	src.AddMember(a, b)
	src.AddMember(b, c)

	got, err := groupgate.Expand(context.Background(), src, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a", "f-b", "f-c"}, got.Names())
}

func TestExpandCycleTerminates(t *testing.T) {
	anybody := mkGroup(t, "Anybody")
	everybody := mkGroup(t, "Every Body")

	src := groupgate.NewStaticSource()
	src.AddMember(anybody, everybody)
	src.AddMember(everybody, anybody)

	got, err := groupgate.Expand(context.Background(), src, anybody)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-anybody", "f-every-body"}, got.Names())

	// Expansion is symmetric for a two-cycle.
	got, err = groupgate.Expand(context.Background(), src, everybody)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-anybody", "f-every-body"}, got.Names())
}

func TestExpandSelfLoop(t *testing.T) {
	a := mkGroup(t, "A")

	src := groupgate.NewStaticSource()
	src.AddMember(a, a)

	got, err := groupgate.Expand(context.Background(), src, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a"}, got.Names())
}

func TestExpandDiamondDeduplicates(t *testing.T) {
	a := mkGroup(t, "A")
	b := mkGroup(t, "B")
	c := mkGroup(t, "C")
	d := mkGroup(t, "D")

	src := groupgate.NewStaticSource()
	src.AddMember(a, b)
	src.AddMember(a, c)
	src.AddMember(b, d)
	src.AddMember(c, d)

	got, err := groupgate.Expand(context.Background(), src, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a", "f-b", "f-c", "f-d"}, got.Names())
}

func TestExpandMaxDepth(t *testing.T) {
	a := mkGroup(t, "A")
	b := mkGroup(t, "B")
	c := mkGroup(t, "C")

	src := groupgate.NewStaticSource()
	src.AddMember(a, b)
	src.AddMember(b, c)

	got, err := groupgate.Expand(context.Background(), src, a, groupgate.WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a"}, got.Names(), "depth 0 is the start group alone")

	got, err = groupgate.Expand(context.Background(), src, a, groupgate.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a", "f-b"}, got.Names())

	got, err = groupgate.Expand(context.Background(), src, a, groupgate.WithMaxDepth(10))
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a", "f-b", "f-c"}, got.Names())
}

func TestExpandAll(t *testing.T) {
	a := mkGroup(t, "A")
	b := mkGroup(t, "B")
	shared := mkGroup(t, "Shared")

	src := groupgate.NewStaticSource()
	src.AddMember(a, shared)
	src.AddMember(b, shared)

	got, err := groupgate.ExpandAll(context.Background(), src, []groupgate.Group{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-a", "f-b", "f-shared"}, got.Names())
}
