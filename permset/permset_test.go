package permset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/permset"
)

func TestSetAndGet(t *testing.T) {
	p := permset.New()
	require.Equal(t, permset.DefaultCapacity, p.Capacity())

	require.NoError(t, p.Set("read", "d-owner", "staff"))
	assert.Equal(t, []string{"d-owner", "staff"}, p.Get("read"))

	// Unset kinds read as empty, never nil-panics.
	assert.Empty(t, p.Get("write"))
}

func TestSetOverCapacity(t *testing.T) {
	p := permset.New()

	err := p.Set("read", "a", "b", "c")
	require.Error(t, err)
	assert.True(t, groupgate.IsTooManyPermissions(err))

	// Failed sets leave the kind untouched.
	assert.Empty(t, p.Get("read"))
}

func TestSetClearsTrailingSlots(t *testing.T) {
	p := permset.New()
	require.NoError(t, p.Set("read", "a", "b"))
	require.NoError(t, p.Set("read", "c"))

	assert.Equal(t, []string{"c"}, p.Get("read"), "shorter set clears the remaining slot")

	require.NoError(t, p.Set("read"))
	assert.Empty(t, p.Get("read"), "empty set clears every slot")
}

func TestClear(t *testing.T) {
	p := permset.New()
	require.NoError(t, p.Set("read", "a"))

	p.Clear("read")
	assert.Empty(t, p.Get("read"))
	assert.Empty(t, p.Kinds())
}

func TestKinds(t *testing.T) {
	p := permset.New()
	require.NoError(t, p.Set("write", "a"))
	require.NoError(t, p.Set("read", "b"))
	require.NoError(t, p.Set("delete"))

	assert.Equal(t, []string{"read", "write"}, p.Kinds(), "kinds with no values are omitted")
}

func TestWithCapacity(t *testing.T) {
	p := permset.New(permset.WithCapacity(4))
	require.Equal(t, 4, p.Capacity())

	require.NoError(t, p.Set("read", "a", "b", "c", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, p.Get("read"))

	assert.True(t, groupgate.IsTooManyPermissions(p.Set("read", "a", "b", "c", "d", "e")))
}

func TestSlotValues(t *testing.T) {
	p := permset.New()
	require.NoError(t, p.Set("read", "d-owner"))

	values := p.SlotValues("read")
	require.Len(t, values, 2)
	assert.Equal(t, "d-owner", values[0])
	assert.Nil(t, values[1], "empty slots persist as NULL")

	values = p.SlotValues("write")
	require.Len(t, values, 2)
	assert.Nil(t, values[0])
	assert.Nil(t, values[1])
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"read_0", "read_1"}, permset.Columns("read", 2))
	assert.Equal(t, []string{"write_0", "write_1", "write_2"}, permset.Columns("write", 3))
}
