package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_BaseID(t *testing.T) {
	d := Document{Id: 7, SegmentNumber: 2}
	assert.Equal(t, 5, d.BaseID())
}

func TestCollection_AddAssignsSequentialIds(t *testing.T) {
	c := NewCollection()
	id0 := c.Add(Document{Key: 1})
	id1 := c.Add(Document{Key: 2})
	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, c.Len())
}

func TestCollection_GetByKey_PrefersLowestSegmentAndSkipsDeleted(t *testing.T) {
	c := NewCollection()
	c.Add(Document{Key: 1, SegmentNumber: 0, Deleted: true})
	id1 := c.Add(Document{Key: 1, SegmentNumber: 1})
	c.Add(Document{Key: 1, SegmentNumber: 2})

	d, ok := c.GetByKey(1)
	require.True(t, ok)
	assert.Equal(t, id1, d.Id)
	assert.Equal(t, int32(1), d.SegmentNumber)
}

func TestCollection_GetAllByKey_ExcludesDeleted(t *testing.T) {
	c := NewCollection()
	c.Add(Document{Key: 1, SegmentNumber: 0})
	c.Add(Document{Key: 1, SegmentNumber: 1, Deleted: true})

	all := c.GetAllByKey(1)
	require.Len(t, all, 1)
	assert.Equal(t, int32(0), all[0].SegmentNumber)
}

func TestCollection_GetSegment_FallsBackWhenAbsent(t *testing.T) {
	c := NewCollection()
	c.Add(Document{Key: 1, SegmentNumber: 0})

	d, ok := c.GetSegment(1, 3)
	require.True(t, ok)
	assert.Equal(t, int32(0), d.SegmentNumber)
}

func TestCollection_MarkDeleted(t *testing.T) {
	c := NewCollection()
	id := c.Add(Document{Key: 1})
	c.MarkDeleted(id)

	d, ok := c.Get(id)
	require.True(t, ok)
	assert.True(t, d.Deleted)

	_, ok = c.GetByKey(1)
	assert.False(t, ok)
}

func TestCollection_Get_OutOfRange(t *testing.T) {
	c := NewCollection()
	_, ok := c.Get(0)
	assert.False(t, ok)
}
