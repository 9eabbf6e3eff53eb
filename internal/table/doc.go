// Package table derives the sorted, paginated customer view and keeps the
// shared row selection consistent across page changes and sort flips.
//
// The free functions (Sort, Paginate, TotalPages, SelectPage, Summarize) are
// pure over their inputs apart from the selection set they are handed.
// Engine bundles them with the view state the UI keeps between renders.
//
// Sorting is recomputed from the full collection on every call, so a refetch
// after a mutation never sees a stale order. Selecting or clearing a page
// only ever touches the ids on that page; selections made elsewhere are left
// alone.
package table
