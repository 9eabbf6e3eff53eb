package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ZeroValue(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("1"))
	assert.Nil(t, s.IDs())
	assert.False(t, s.Remove("1"))

	assert.True(t, s.Add("1"))
	assert.True(t, s.Has("1"))
}

func TestSet_KeepsInsertionOrder(t *testing.T) {
	s := NewSet("3", "1", "2", "1")
	assert.Equal(t, []string{"3", "1", "2"}, s.IDs())

	require.True(t, s.Remove("1"))
	assert.Equal(t, []string{"3", "2"}, s.IDs())
	assert.True(t, s.Has("2"))
	assert.True(t, s.Has("3"))

	s.Add("1")
	assert.Equal(t, []string{"3", "2", "1"}, s.IDs())
}

func TestSet_DoubleToggleIsIdentity(t *testing.T) {
	for _, start := range [][]string{nil, {"a"}, {"b", "a"}} {
		s := NewSet(start...)
		before := s.IDs()

		s.Toggle("a")
		s.Toggle("a")

		assert.ElementsMatch(t, before, s.IDs())
	}
}

func TestSet_ToggleReportsMembership(t *testing.T) {
	var s Set
	assert.True(t, s.Toggle("x"))
	assert.False(t, s.Toggle("x"))
	assert.Equal(t, 0, s.Len())
}

func TestSet_IDsIsACopy(t *testing.T) {
	s := NewSet("a", "b")
	ids := s.IDs()
	ids[0] = "mutated"
	assert.True(t, s.Has("a"))
}

func TestSet_Only(t *testing.T) {
	s := NewSet()
	_, ok := s.Only()
	assert.False(t, ok)

	s.Add("42")
	id, ok := s.Only()
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	s.Add("43")
	_, ok = s.Only()
	assert.False(t, ok)
}

func TestSet_ClearAndRemoveAll(t *testing.T) {
	s := NewSet("a", "b", "c")
	s.RemoveAll([]string{"a", "c", "missing"})
	assert.Equal(t, []string{"b"}, s.IDs())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	s.Add("d")
	assert.Equal(t, []string{"d"}, s.IDs())
}

func TestStore_ModalLifecycle(t *testing.T) {
	var s Store
	assert.False(t, s.Modal().Open)

	s.OpenModal("")
	assert.True(t, s.Modal().Creating())

	s.CloseModal()
	s.OpenViewer("7")
	assert.Equal(t, Modal{Open: true, EditingID: "7", ViewOnly: true}, s.Modal())

	s.SetViewOnly(false)
	assert.Equal(t, Modal{Open: true, EditingID: "7"}, s.Modal())
	assert.False(t, s.Modal().Creating())

	s.OpenModal("8")
	assert.False(t, s.Modal().ViewOnly)

	s.CloseModal()
	assert.Equal(t, Modal{}, s.Modal())

	s.SetViewOnly(true)
	assert.False(t, s.Modal().ViewOnly, "closed modal ignores view-only changes")
}

func TestStore_SelectionSurvivesModal(t *testing.T) {
	var s Store
	s.Selected.Add("1")
	s.OpenModal("1")
	s.CloseModal()
	assert.True(t, s.Selected.Has("1"))
}
