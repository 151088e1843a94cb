// Package grid is a small composable table pipeline over an in-memory row
// snapshot: global text filter, per-column equality filters, single-column
// sort, pagination and cross-page row selection, with bulk actions applied
// to the full selection set.
package grid

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// PageSizes is the enumerated rows-per-page option set.
var PageSizes = []int{5, 10, 15, 20, 50}

const DefaultPageSize = 10

var (
	ErrNoSelection = errors.New("no items selected for this action")
	ErrUnknownCol  = errors.New("unknown column")
	ErrNotSortable = errors.New("column is not sortable")
	ErrPageSize    = errors.New("unsupported page size")
)

type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

// Column describes one pipeline-visible column. Value stringifies a cell
// for filtering and for the default lexicographic sort; Less overrides the
// sort order (numeric columns need it).
type Column[T any] struct {
	ID         string
	Value      func(T) string
	Sortable   bool
	Global     bool // participates in the global text filter
	Filterable bool // accepts an equality filter
	Less       func(a, b T) bool
}

// Grid holds rows plus view state. All mutation goes through the mutex and
// bumps the generation counter, so a bulk completion racing a concurrent
// snapshot change can detect staleness instead of clobbering it.
type Grid[T any] struct {
	mu      sync.Mutex
	key     func(T) string
	columns []Column[T]

	rows    []T
	global  string
	filters map[string]string
	sortCol string
	sortDir Direction

	pageIndex int
	pageSize  int

	selected   map[string]struct{}
	generation uint64
}

// View is one computed page plus the state the caller needs to render
// pagination and selection counts.
type View[T any] struct {
	Rows       []T
	PageIndex  int
	PageCount  int
	PageSize   int
	Filtered   int
	Total      int
	Selected   int
	SortColumn string
	SortDir    Direction
	Generation uint64
}

func New[T any](key func(T) string, cols []Column[T]) *Grid[T] {
	return &Grid[T]{
		key:      key,
		columns:  cols,
		filters:  map[string]string{},
		pageSize: DefaultPageSize,
		selected: map[string]struct{}{},
	}
}

func (g *Grid[T]) column(id string) (Column[T], bool) {
	for _, c := range g.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// SetRows replaces the snapshot. Selection keeps only keys that still
// exist; the page index is re-clamped against the new filtered count.
func (g *Grid[T]) SetRows(rows []T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = rows
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[g.key(r)] = struct{}{}
	}
	for k := range g.selected {
		if _, ok := present[k]; !ok {
			delete(g.selected, k)
		}
	}
	g.generation++
	g.clampPage()
}

func (g *Grid[T]) SetGlobalFilter(q string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.global = q
	g.clampPage()
}

// SetColumnFilter sets an equality filter; empty or "All" clears it.
func (g *Grid[T]) SetColumnFilter(colID, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, ok := g.column(colID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCol, colID)
	}
	if !col.Filterable {
		return fmt.Errorf("column %s does not accept filters", colID)
	}
	if value == "" || value == "All" {
		delete(g.filters, colID)
	} else {
		g.filters[colID] = value
	}
	g.clampPage()
	return nil
}

// ToggleSort cycles the named column ascending, descending, none. Selecting
// a different column starts it ascending.
func (g *Grid[T]) ToggleSort(colID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, ok := g.column(colID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCol, colID)
	}
	if !col.Sortable {
		return fmt.Errorf("%w: %s", ErrNotSortable, colID)
	}
	if g.sortCol != colID {
		g.sortCol, g.sortDir = colID, Ascending
		return nil
	}
	switch g.sortDir {
	case Ascending:
		g.sortDir = Descending
	case Descending:
		g.sortCol, g.sortDir = "", None
	default:
		g.sortDir = Ascending
	}
	return nil
}

func (g *Grid[T]) SetPageSize(n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ok := false
	for _, s := range PageSizes {
		if s == n {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrPageSize, n)
	}
	g.pageSize = n
	g.clampPage()
	return nil
}

func (g *Grid[T]) SetPageIndex(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageIndex = n
	g.clampPage()
}

// visible runs filter -> filter -> sort. Callers hold the lock.
func (g *Grid[T]) visible() []T {
	needle := strings.ToLower(strings.TrimSpace(g.global))
	out := make([]T, 0, len(g.rows))
	for _, row := range g.rows {
		if needle != "" && !g.matchGlobal(row, needle) {
			continue
		}
		if !g.matchFilters(row) {
			continue
		}
		out = append(out, row)
	}
	if g.sortDir == None || g.sortCol == "" {
		return out
	}
	col, ok := g.column(g.sortCol)
	if !ok {
		return out
	}
	less := col.Less
	if less == nil {
		less = func(a, b T) bool {
			return strings.ToLower(col.Value(a)) < strings.ToLower(col.Value(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if g.sortDir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func (g *Grid[T]) matchGlobal(row T, needle string) bool {
	for _, c := range g.columns {
		if !c.Global || c.Value == nil {
			continue
		}
		if strings.Contains(strings.ToLower(c.Value(row)), needle) {
			return true
		}
	}
	return false
}

func (g *Grid[T]) matchFilters(row T) bool {
	for colID, want := range g.filters {
		col, ok := g.column(colID)
		if !ok || col.Value == nil {
			return false
		}
		if col.Value(row) != want {
			return false
		}
	}
	return true
}

func (g *Grid[T]) clampPage() {
	count := g.pageCount(len(g.visible()))
	if g.pageIndex > count-1 {
		g.pageIndex = count - 1
	}
	if g.pageIndex < 0 {
		g.pageIndex = 0
	}
}

func (g *Grid[T]) pageCount(filtered int) int {
	count := (filtered + g.pageSize - 1) / g.pageSize
	if count < 1 {
		count = 1
	}
	return count
}

// Page computes the current view.
func (g *Grid[T]) Page() View[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	vis := g.visible()
	count := g.pageCount(len(vis))
	idx := g.pageIndex
	if idx > count-1 {
		idx = count - 1
	}
	start := idx * g.pageSize
	end := start + g.pageSize
	if start > len(vis) {
		start = len(vis)
	}
	if end > len(vis) {
		end = len(vis)
	}
	return View[T]{
		Rows:       vis[start:end],
		PageIndex:  idx,
		PageCount:  count,
		PageSize:   g.pageSize,
		Filtered:   len(vis),
		Total:      len(g.rows),
		Selected:   len(g.selected),
		SortColumn: g.sortCol,
		SortDir:    g.sortDir,
		Generation: g.generation,
	}
}

// ToggleSelect flips selection for the given row keys.
func (g *Grid[T]) ToggleSelect(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, k := range keys {
		if _, ok := g.selected[k]; ok {
			delete(g.selected, k)
		} else {
			g.selected[k] = struct{}{}
		}
	}
}

// SelectPage selects or deselects only the rows visible on the current
// page. Selections made on other pages are untouched.
func (g *Grid[T]) SelectPage(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	vis := g.visible()
	start := g.pageIndex * g.pageSize
	end := start + g.pageSize
	if start > len(vis) {
		start = len(vis)
	}
	if end > len(vis) {
		end = len(vis)
	}
	for _, row := range vis[start:end] {
		if on {
			g.selected[g.key(row)] = struct{}{}
		} else {
			delete(g.selected, g.key(row))
		}
	}
}

func (g *Grid[T]) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = map[string]struct{}{}
}

// SelectedKeys returns the full cross-page selection in stable order.
func (g *Grid[T]) SelectedKeys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selectedKeysLocked()
}

func (g *Grid[T]) selectedKeysLocked() []string {
	out := make([]string, 0, len(g.selected))
	for _, row := range g.rows {
		if _, ok := g.selected[g.key(row)]; ok {
			out = append(out, g.key(row))
		}
	}
	return out
}

// BulkRemove runs action over the full selection and, on success, drops the
// affected rows and clears the selection. The action runs outside the lock;
// if the snapshot changed meanwhile only keys still present are dropped.
// On failure rows and selection are left untouched.
func (g *Grid[T]) BulkRemove(ctx context.Context, action func(ctx context.Context, ids []string) error) error {
	g.mu.Lock()
	ids := g.selectedKeysLocked()
	g.mu.Unlock()

	if len(ids) == 0 {
		return ErrNoSelection
	}
	if err := action(ctx, ids); err != nil {
		return err
	}

	// Re-acquire and remove by key: a concurrent bulk action may have
	// already replaced the snapshot, so positional removal is off the table.
	g.mu.Lock()
	defer g.mu.Unlock()
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	kept := g.rows[:0:0]
	for _, row := range g.rows {
		if _, ok := gone[g.key(row)]; !ok {
			kept = append(kept, row)
		}
	}
	g.rows = kept
	g.selected = map[string]struct{}{}
	g.generation++
	g.clampPage()
	return nil
}

// Bulk runs action over the full selection without touching the rows;
// callers that changed the backing store follow up with SetRows.
func (g *Grid[T]) Bulk(ctx context.Context, action func(ctx context.Context, ids []string) error) error {
	ids := g.SelectedKeys()
	if len(ids) == 0 {
		return ErrNoSelection
	}
	return action(ctx, ids)
}
