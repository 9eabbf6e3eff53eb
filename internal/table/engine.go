package table

import (
	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/selection"
)

// View is the result of projecting a collection through the engine state.
type View struct {
	Sorted     []customer.Customer
	Rows       []customer.Customer
	Page       int
	PageSize   int
	Pages      int // display page count, at least 1
	Total      int
	Range      string
	Descending bool
	Summary    Summary
}

// Engine keeps the view state between renders and applies selection
// changes to a shared set.
type Engine struct {
	page       int
	pageSize   int
	descending bool
	sel        *selection.Set
}

// NewEngine returns an engine on page 1, ascending, over sel.
func NewEngine(sel *selection.Set, pageSize int) *Engine {
	if sel == nil {
		sel = selection.NewSet()
	}
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &Engine{page: 1, pageSize: pageSize, sel: sel}
}

// Selection returns the shared selection set.
func (e *Engine) Selection() *selection.Set { return e.sel }

// Page returns the current 1-based page.
func (e *Engine) Page() int { return e.page }

// PageSize returns the rows per page.
func (e *Engine) PageSize() int { return e.pageSize }

// Descending reports the sort direction.
func (e *Engine) Descending() bool { return e.descending }

// Project computes the view of rows for the current state. The page is
// not clamped here; call Clamp after the collection shrinks.
func (e *Engine) Project(rows []customer.Customer) View {
	sorted := Sort(rows, e.descending)
	pageRows := Paginate(sorted, e.page, e.pageSize)
	return View{
		Sorted:     sorted,
		Rows:       pageRows,
		Page:       e.page,
		PageSize:   e.pageSize,
		Pages:      DisplayPages(len(sorted), e.pageSize),
		Total:      len(sorted),
		Range:      RangeLabel(e.page, e.pageSize, len(sorted)),
		Descending: e.descending,
		Summary:    Summarize(pageRows, e.sel),
	}
}

// ToggleSort flips the sort direction.
func (e *Engine) ToggleSort() { e.descending = !e.descending }

// SetPage moves to page without bounds checks.
func (e *Engine) SetPage(page int) { e.page = page }

// NextPage advances one page if another page exists for n rows.
func (e *Engine) NextPage(n int) bool {
	if e.page >= DisplayPages(n, e.pageSize) {
		return false
	}
	e.page++
	return true
}

// PrevPage moves back one page unless already on the first.
func (e *Engine) PrevPage() bool {
	if e.page <= 1 {
		return false
	}
	e.page--
	return true
}

// SetPageSize changes rows per page and returns to page 1.
func (e *Engine) SetPageSize(size int) {
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}
	e.pageSize = size
	e.page = 1
}

// Clamp keeps the page within the pages available for n rows.
func (e *Engine) Clamp(n int) {
	e.page = Clamp(e.page, n, e.pageSize)
}

// SelectPage selects or clears every row on the current page of rows.
func (e *Engine) SelectPage(rows []customer.Customer, checked bool) {
	SelectPage(Paginate(Sort(rows, e.descending), e.page, e.pageSize), e.sel, checked)
}

// TogglePage selects the whole page unless it is already fully selected,
// in which case it clears it. It reports the resulting checked state.
func (e *Engine) TogglePage(rows []customer.Customer) bool {
	view := e.Project(rows)
	checked := !view.Summary.AllSelected
	SelectPage(view.Rows, e.sel, checked)
	return checked
}

// Toggle flips the selection of id.
func (e *Engine) Toggle(id string) bool { return Toggle(e.sel, id) }
