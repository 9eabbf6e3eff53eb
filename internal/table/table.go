package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/selection"
)

// DefaultPageSize is used when no valid page size is configured.
const DefaultPageSize = 10

var pageSizeOptions = []int{5, 10, 15, 20, 30, 40, 50}

// PageSizeOptions returns the selectable page sizes in ascending order.
func PageSizeOptions() []int {
	out := make([]int, len(pageSizeOptions))
	copy(out, pageSizeOptions)
	return out
}

// ValidPageSize reports whether size is one of PageSizeOptions.
func ValidPageSize(size int) bool {
	for _, opt := range pageSizeOptions {
		if opt == size {
			return true
		}
	}
	return false
}

// StepPageSize moves size delta positions through PageSizeOptions, stopping
// at either end. A size that is not an option snaps to DefaultPageSize first.
func StepPageSize(size, delta int) int {
	idx := -1
	for i, opt := range pageSizeOptions {
		if opt == size {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DefaultPageSize
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pageSizeOptions) {
		idx = len(pageSizeOptions) - 1
	}
	return pageSizeOptions[idx]
}

func normalizeSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

// Sort returns a copy of rows ordered by id read as a base-10 integer.
// Ids that are not integers come after every numeric id in ascending order
// and compare lexically among themselves. rows is not modified.
func Sort(rows []customer.Customer, descending bool) []customer.Customer {
	type keyed struct {
		row     customer.Customer
		n       int64
		numeric bool
	}
	keys := make([]keyed, len(rows))
	for i, r := range rows {
		n, err := strconv.ParseInt(strings.TrimSpace(r.ID), 10, 64)
		keys[i] = keyed{row: r, n: n, numeric: err == nil}
	}

	less := func(a, b keyed) bool {
		switch {
		case a.numeric && b.numeric:
			return a.n < b.n
		case a.numeric != b.numeric:
			return a.numeric
		default:
			return a.row.ID < b.row.ID
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if descending {
			return less(keys[j], keys[i])
		}
		return less(keys[i], keys[j])
	})

	out := make([]customer.Customer, len(keys))
	for i, k := range keys {
		out[i] = k.row
	}
	return out
}

// Paginate returns the rows of 1-based page. A page outside the data yields
// an empty slice. The result aliases rows.
func Paginate(rows []customer.Customer, page, size int) []customer.Customer {
	size = normalizeSize(size)
	if page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// TotalPages returns ceil(n/size), which is zero for an empty collection.
func TotalPages(n, size int) int {
	size = normalizeSize(size)
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// DisplayPages is the page count shown to the user: TotalPages with a
// floor of one.
func DisplayPages(n, size int) int {
	return max(1, TotalPages(n, size))
}

// Clamp pulls page into [1, DisplayPages(n, size)].
func Clamp(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := DisplayPages(n, size); page > last {
		return last
	}
	return page
}

// RangeLabel renders the footer range, e.g. "11-14 of 14".
func RangeLabel(page, size, n int) string {
	size = normalizeSize(size)
	start := (page - 1) * size
	if n <= 0 || page < 1 || start >= n {
		return fmt.Sprintf("0-0 of %d", max(n, 0))
	}
	return fmt.Sprintf("%d-%d of %d", start+1, min(start+size, n), n)
}

// Summary describes how much of one page is selected.
type Summary struct {
	Selected     int
	AllSelected  bool
	SomeSelected bool
}

// Summarize computes the tri-state header flags for page.
func Summarize(page []customer.Customer, sel *selection.Set) Summary {
	var s Summary
	for _, r := range page {
		if sel.Has(r.ID) {
			s.Selected++
		}
	}
	s.AllSelected = len(page) > 0 && s.Selected == len(page)
	s.SomeSelected = s.Selected > 0 && !s.AllSelected
	return s
}

// SelectPage adds every id on page to sel when checked, otherwise removes
// them. Ids not on page are never touched.
func SelectPage(page []customer.Customer, sel *selection.Set, checked bool) {
	for _, r := range page {
		if checked {
			sel.Add(r.ID)
		} else {
			sel.Remove(r.ID)
		}
	}
}

// Toggle flips the selection of one id.
func Toggle(sel *selection.Set, id string) bool {
	return sel.Toggle(id)
}
