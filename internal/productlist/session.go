package productlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Palgie/luxury-beauty-app/internal/catalog"
)

// Phase is the lifecycle state of a product list session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseErrored Phase = "errored"
)

// Fetcher loads one page of a product listing. *catalog.Client
// satisfies it.
type Fetcher interface {
	ProductList(ctx context.Context, pagePath string, p catalog.ListParams) (*catalog.ProductListPage, error)
}

// Snapshot is an immutable view of session state.
type Snapshot struct {
	Phase       Phase
	Products    []catalog.Product
	Facets      catalog.FacetList
	Total       int
	HasMore     bool
	Sort        catalog.SortOption
	Selections  []catalog.FacetSelection
	LoadingMore bool
	Err         error
}

// Option configures a Session.
type Option func(*Session)

// WithLimit sets the page size.
func WithLimit(limit int) Option {
	return func(s *Session) { s.limit = limit }
}

// WithSort sets the initial sort order.
func WithSort(sort catalog.SortOption) Option {
	return func(s *Session) { s.sort = sort }
}

// WithOnChange registers a callback invoked after every state change.
// It runs outside the session lock; calling session methods from it is
// safe.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// Session drives a paginated, sortable, facetable product listing for
// one page path. Fetches run synchronously in the calling goroutine;
// responses from a superseded fetch are discarded so the visible state
// always reflects the most recent request.
type Session struct {
	fetcher  Fetcher
	logger   *slog.Logger
	pagePath string
	limit    int
	onChange func(Snapshot)

	mu          sync.Mutex
	epoch       uint64
	phase       Phase
	sort        catalog.SortOption
	selections  []catalog.FacetSelection
	products    []catalog.Product
	seen        map[string]struct{}
	facets      catalog.FacetList
	total       int
	hasMore     bool
	loadingMore bool
	err         error
}

// NewSession creates an idle session for pagePath. Call Load to start.
func NewSession(fetcher Fetcher, pagePath string, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		fetcher:  fetcher,
		logger:   logger,
		pagePath: pagePath,
		limit:    20,
		phase:    PhaseIdle,
		sort:     catalog.SortPopularity,
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	products := make([]catalog.Product, len(s.products))
	copy(products, s.products)
	selections := make([]catalog.FacetSelection, len(s.selections))
	copy(selections, s.selections)
	return Snapshot{
		Phase:       s.phase,
		Products:    products,
		Facets:      s.facets,
		Total:       s.total,
		HasMore:     s.hasMore,
		Sort:        s.sort,
		Selections:  selections,
		LoadingMore: s.loadingMore,
		Err:         s.err,
	}
}

func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}

func (s *Session) paramsLocked(offset int) catalog.ListParams {
	facets := make([]catalog.FacetSelection, len(s.selections))
	copy(facets, s.selections)
	return catalog.ListParams{
		Offset: offset,
		Limit:  s.limit,
		Sort:   s.sort,
		Facets: facets,
	}
}

// Load runs the initial fetch.
func (s *Session) Load(ctx context.Context) {
	s.reload(ctx)
}

// Refresh refetches the first page with the current sort and facets,
// replacing accumulated results.
func (s *Session) Refresh(ctx context.Context) {
	s.reload(ctx)
}

// Retry refetches after an error with unchanged parameters.
func (s *Session) Retry(ctx context.Context) {
	s.reload(ctx)
}

// SetSort changes the sort order and refetches from the first page.
// Setting the current sort is a no-op.
func (s *Session) SetSort(ctx context.Context, sort catalog.SortOption) {
	s.mu.Lock()
	if sort == s.sort || !sort.Valid() {
		s.mu.Unlock()
		return
	}
	s.sort = sort
	s.mu.Unlock()

	s.reload(ctx)
}

// ToggleFacet toggles a facet option and refetches from the first
// page. One option per facet: selecting a second option of the same
// facet replaces the first, selecting the current option removes it.
func (s *Session) ToggleFacet(ctx context.Context, sel catalog.FacetSelection) {
	s.mu.Lock()
	kept := s.selections[:0]
	removed := false
	for _, existing := range s.selections {
		if existing.FacetName != sel.FacetName {
			kept = append(kept, existing)
			continue
		}
		if existing.OptionName == sel.OptionName {
			removed = true
		}
	}
	if !removed {
		kept = append(kept, sel)
	}
	s.selections = kept
	s.mu.Unlock()

	s.reload(ctx)
}

// ClearFacets removes all facet selections and refetches. A no-op when
// nothing is selected.
func (s *Session) ClearFacets(ctx context.Context) {
	s.mu.Lock()
	if len(s.selections) == 0 {
		s.mu.Unlock()
		return
	}
	s.selections = nil
	s.mu.Unlock()

	s.reload(ctx)
}

// reload fetches the first page, replacing all accumulated state. Any
// fetch already in flight is superseded and its response discarded.
func (s *Session) reload(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.phase = PhaseLoading
	s.err = nil
	params := s.paramsLocked(0)
	s.mu.Unlock()
	s.notify()

	page, err := s.fetcher.ProductList(ctx, s.pagePath, params)

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		s.logger.Debug("discarding stale response",
			slog.String("page_path", s.pagePath),
			slog.Uint64("epoch", epoch),
		)
		return
	}
	if page == nil {
		s.phase = PhaseErrored
		s.err = err
		s.mu.Unlock()
		s.notify()
		return
	}
	if err != nil {
		// Partial response: render what arrived.
		s.logger.Warn("partial product list response",
			slog.String("page_path", s.pagePath),
			slog.String("error", err.Error()),
		)
	}

	s.phase = PhaseLoaded
	s.products = page.Products
	s.seen = make(map[string]struct{}, len(page.Products))
	for _, p := range page.Products {
		s.seen[p.SKU] = struct{}{}
	}
	s.facets = page.Facets
	s.total = page.Total
	s.hasMore = page.HasMore
	s.mu.Unlock()
	s.notify()
}

// LoadMore fetches the next page and appends it, dropping products
// already shown. A no-op unless loaded with more pages available and
// no LoadMore already in flight.
func (s *Session) LoadMore(ctx context.Context) {
	s.mu.Lock()
	if s.phase != PhaseLoaded || !s.hasMore || s.loadingMore {
		s.mu.Unlock()
		return
	}
	s.loadingMore = true
	epoch := s.epoch
	params := s.paramsLocked(len(s.products))
	s.mu.Unlock()
	s.notify()

	page, err := s.fetcher.ProductList(ctx, s.pagePath, params)

	s.mu.Lock()
	s.loadingMore = false
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	if page == nil {
		// Keep what is shown; surface the error without dropping
		// the loaded list.
		s.err = err
		s.mu.Unlock()
		s.notify()
		return
	}
	if err != nil {
		// Partial response: append what arrived.
		s.logger.Warn("partial product list response",
			slog.String("page_path", s.pagePath),
			slog.String("error", err.Error()),
		)
	}

	for _, p := range page.Products {
		if _, ok := s.seen[p.SKU]; ok {
			continue
		}
		s.seen[p.SKU] = struct{}{}
		s.products = append(s.products, p)
	}
	s.total = page.Total
	s.hasMore = page.HasMore
	s.err = nil
	s.mu.Unlock()
	s.notify()
}
