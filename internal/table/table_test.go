package table

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/mockapi"
	"github.com/five82/tally/internal/selection"
)

func makeRows(n int) []customer.Customer {
	rows := make([]customer.Customer, n)
	for i := range rows {
		rows[i] = customer.Customer{ID: fmt.Sprintf("%d", (i+1)*7), Name: fmt.Sprintf("Customer %d", i+1)}
	}
	r := rand.New(rand.NewSource(int64(n)))
	r.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows
}

func ids(rows []customer.Customer) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func seeded(t *testing.T) []customer.Customer {
	t.Helper()
	rows, err := mockapi.DefaultSeed()
	require.NoError(t, err)
	return rows
}

func TestSort_NumericOrder(t *testing.T) {
	rows := []customer.Customer{{ID: "100"}, {ID: "9"}, {ID: "1000"}, {ID: "20"}}

	assert.Equal(t, []string{"9", "20", "100", "1000"}, ids(Sort(rows, false)))
	assert.Equal(t, []string{"1000", "100", "20", "9"}, ids(Sort(rows, true)))
	assert.Equal(t, []string{"100", "9", "1000", "20"}, ids(rows), "input must not be reordered")
}

func TestSort_NonNumericIDsLast(t *testing.T) {
	rows := []customer.Customer{{ID: "b"}, {ID: "3"}, {ID: "a"}, {ID: "1"}}

	assert.Equal(t, []string{"1", "3", "a", "b"}, ids(Sort(rows, false)))
	assert.Equal(t, []string{"b", "a", "3", "1"}, ids(Sort(rows, true)))
}

func TestSort_DoubleToggleIsIdentity(t *testing.T) {
	e := NewEngine(nil, 10)
	rows := makeRows(23)

	before := ids(e.Project(rows).Sorted)
	e.ToggleSort()
	flipped := ids(e.Project(rows).Sorted)
	e.ToggleSort()

	assert.NotEqual(t, before, flipped)
	assert.Equal(t, before, ids(e.Project(rows).Sorted))
}

func TestPaginate_ReconstructsCollection(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 14, 50, 51, 99} {
		for _, size := range PageSizeOptions() {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				sorted := Sort(makeRows(n), false)
				pages := TotalPages(n, size)
				assert.Equal(t, (n+size-1)/size, pages)

				var union []string
				for p := 1; p <= pages; p++ {
					slice := Paginate(sorted, p, size)
					require.NotEmpty(t, slice)
					require.LessOrEqual(t, len(slice), size)
					union = append(union, ids(slice)...)
				}
				if n == 0 {
					assert.Empty(t, union)
					return
				}
				assert.Equal(t, ids(sorted), union)
			})
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	rows := Sort(makeRows(14), false)

	assert.Empty(t, Paginate(rows, 0, 10))
	assert.Empty(t, Paginate(rows, -3, 10))
	assert.Empty(t, Paginate(rows, 3, 10))
	assert.Empty(t, Paginate(nil, 1, 10))
	assert.Len(t, Paginate(rows, 1, 0), DefaultPageSize, "non-positive size falls back to default")
}

func TestScenario_FourteenRecordsTenPerPage(t *testing.T) {
	e := NewEngine(nil, 10)
	rows := seeded(t)

	view := e.Project(rows)
	assert.Equal(t, 2, view.Pages)
	assert.Equal(t, "1-10 of 14", view.Range)
	require.Len(t, view.Rows, 10)
	assert.Equal(t, ids(view.Sorted[:10]), ids(view.Rows))
	assert.Equal(t, "1084829184", view.Rows[0].ID)

	require.True(t, e.NextPage(len(rows)))
	view = e.Project(rows)
	assert.Equal(t, "11-14 of 14", view.Range)
	assert.Equal(t, []string{"6848291849", "7848291849", "8848291849", "9848291849"}, ids(view.Rows))
	assert.False(t, e.NextPage(len(rows)))
}

func TestTotalPagesAndDisplay(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, DisplayPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(14, 5))
}

func TestRangeLabel(t *testing.T) {
	tests := []struct {
		page, size, n int
		want          string
	}{
		{1, 10, 14, "1-10 of 14"},
		{2, 10, 14, "11-14 of 14"},
		{1, 10, 0, "0-0 of 0"},
		{3, 10, 14, "0-0 of 14"},
		{1, 50, 14, "1-14 of 14"},
		{3, 5, 14, "11-14 of 14"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RangeLabel(tt.page, tt.size, tt.n), "page=%d size=%d n=%d", tt.page, tt.size, tt.n)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 14, 10))
	assert.Equal(t, 2, Clamp(5, 14, 10))
	assert.Equal(t, 1, Clamp(3, 0, 10))
	assert.Equal(t, 2, Clamp(2, 14, 10))
}

func TestSelectPage_Invertible(t *testing.T) {
	rows := Sort(makeRows(25), false)
	page := Paginate(rows, 2, 10)

	priors := [][]string{
		nil,
		{rows[0].ID},
		{page[0].ID, page[3].ID},
		ids(page),
		{rows[24].ID, page[9].ID},
	}
	for _, prior := range priors {
		sel := selection.NewSet(prior...)
		SelectPage(page, sel, true)
		assert.True(t, Summarize(page, sel).AllSelected)
		SelectPage(page, sel, false)

		// Unchecking removes the whole page, so the pre-toggle state is
		// restored exactly for ids off the page.
		var offPage []string
		for _, id := range prior {
			if !containsID(page, id) {
				offPage = append(offPage, id)
			}
		}
		assert.ElementsMatch(t, offPage, sel.IDs())
	}
}

func TestSelectThenUnselect_RestoresPriorSelection(t *testing.T) {
	rows := Sort(makeRows(25), false)
	page := Paginate(rows, 2, 10)
	sel := selection.NewSet(rows[0].ID, rows[21].ID)
	before := sel.IDs()

	SelectPage(page, sel, true)
	SelectPage(page, sel, false)

	assert.Equal(t, before, sel.IDs())
}

func TestSelectPage_CrossPageIndependence(t *testing.T) {
	rows := seeded(t)
	e := NewEngine(nil, 10)
	first := e.Project(rows).Rows[2]

	e.Toggle(first.ID)
	require.True(t, e.NextPage(len(rows)))
	second := e.Project(rows).Rows[1]
	e.Toggle(second.ID)

	e.SelectPage(rows, false)

	assert.True(t, e.Selection().Has(first.ID))
	assert.False(t, e.Selection().Has(second.ID))
	assert.Equal(t, 1, e.Selection().Len())
}

func TestSummarize_TriState(t *testing.T) {
	page := Sort(makeRows(4), false)
	sel := selection.NewSet()

	s := Summarize(page, sel)
	assert.False(t, s.AllSelected)
	assert.False(t, s.SomeSelected)

	sel.Add(page[1].ID)
	s = Summarize(page, sel)
	assert.False(t, s.AllSelected)
	assert.True(t, s.SomeSelected)
	assert.Equal(t, 1, s.Selected)

	SelectPage(page, sel, true)
	s = Summarize(page, sel)
	assert.True(t, s.AllSelected)
	assert.False(t, s.SomeSelected)

	empty := Summarize(nil, sel)
	assert.False(t, empty.AllSelected, "an empty page is never fully selected")
	assert.False(t, empty.SomeSelected)
}

func TestToggle_Twice(t *testing.T) {
	sel := selection.NewSet("1", "2")
	assert.False(t, Toggle(sel, "1"))
	assert.True(t, Toggle(sel, "1"))
	assert.ElementsMatch(t, []string{"1", "2"}, sel.IDs())
}

func TestEngine_TogglePage(t *testing.T) {
	rows := seeded(t)
	e := NewEngine(nil, 5)

	assert.True(t, e.TogglePage(rows))
	assert.Equal(t, 5, e.Selection().Len())
	assert.True(t, e.Project(rows).Summary.AllSelected)

	assert.False(t, e.TogglePage(rows))
	assert.Equal(t, 0, e.Selection().Len())

	e.Toggle(e.Project(rows).Rows[0].ID)
	assert.True(t, e.TogglePage(rows), "partially selected page selects the rest")
	assert.Equal(t, 5, e.Selection().Len())
}

func TestEngine_PageSizeChangeResetsPage(t *testing.T) {
	rows := seeded(t)
	e := NewEngine(nil, 5)
	require.True(t, e.NextPage(len(rows)))
	require.True(t, e.NextPage(len(rows)))
	assert.Equal(t, 3, e.Page())

	e.SetPageSize(StepPageSize(e.PageSize(), 1))
	assert.Equal(t, 10, e.PageSize())
	assert.Equal(t, 1, e.Page())

	e.SetPageSize(7)
	assert.Equal(t, DefaultPageSize, e.PageSize())
}

func TestEngine_OutOfRangePageDoesNotPanic(t *testing.T) {
	rows := seeded(t)
	e := NewEngine(nil, 5)
	e.SetPage(9)

	view := e.Project(rows)
	assert.Empty(t, view.Rows)
	assert.Equal(t, "0-0 of 14", view.Range)

	e.Clamp(len(rows))
	assert.Equal(t, 3, e.Page())
}

func TestEngine_PrevPage(t *testing.T) {
	e := NewEngine(nil, 10)
	assert.False(t, e.PrevPage())
	e.SetPage(2)
	assert.True(t, e.PrevPage())
	assert.Equal(t, 1, e.Page())
}

func TestStepPageSize(t *testing.T) {
	assert.Equal(t, 5, StepPageSize(5, -1))
	assert.Equal(t, 15, StepPageSize(10, 1))
	assert.Equal(t, 50, StepPageSize(50, 1))
	assert.Equal(t, 40, StepPageSize(50, -1))
	assert.Equal(t, DefaultPageSize, StepPageSize(13, 1))
}

func TestNewEngine_InvalidPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewEngine(nil, 0).PageSize())
	assert.Equal(t, 20, NewEngine(nil, 20).PageSize())
}

func containsID(rows []customer.Customer, id string) bool {
	for _, r := range rows {
		if r.ID == id {
			return true
		}
	}
	return false
}
