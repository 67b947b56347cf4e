package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
)

// Matcher locates library items on the destination server for imported
// document entries. Strategies degrade from exact to fuzzy: rating key,
// external GUID, title+year, exact title, fuzzy title. A failed strategy
// falls through to the next; auth failures and cancellation abort.
type Matcher struct {
	finder domain.ItemFinder
	logger *slog.Logger
}

// NewMatcher creates a matcher over the given item finder
func NewMatcher(finder domain.ItemFinder, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{finder: finder, logger: logger}
}

// Match returns the server item for a document entry, or ErrItemNotFound
// when every strategy comes up empty.
func (m *Matcher) Match(ctx context.Context, entry exportfile.Item) (*domain.MediaItem, error) {
	// Rating key: only trusted when the fetched item's title agrees, since
	// keys are not portable across servers and may point at unrelated media
	if entry.ID != "" {
		item, err := m.finder.FetchItem(ctx, entry.ID)
		if abort := m.checkStrategyErr(ctx, err, "ratingKey", entry.Title); abort != nil {
			return nil, abort
		}
		if item != nil && titlesEqual(item.Title, entry.Title) {
			return item, nil
		}
	}

	// External GUID (IMDB etc.) survives across servers
	if entry.GUID != "" {
		items, err := m.finder.FindByGUID(ctx, entry.GUID)
		if abort := m.checkStrategyErr(ctx, err, "guid", entry.Title); abort != nil {
			return nil, abort
		}
		if len(items) > 0 {
			return items[0], nil
		}
	}

	// Title + year
	if entry.Year > 0 {
		items, err := m.finder.FindByTitle(ctx, entry.Title, entry.Year)
		if abort := m.checkStrategyErr(ctx, err, "title+year", entry.Title); abort != nil {
			return nil, abort
		}
		if item := pickByTitle(items, entry.Title); item != nil {
			return item, nil
		}
	}

	// Exact title, then fuzzy title over the same result set
	items, err := m.finder.FindByTitle(ctx, entry.Title, 0)
	if abort := m.checkStrategyErr(ctx, err, "title", entry.Title); abort != nil {
		return nil, abort
	}
	if item := pickByTitle(items, entry.Title); item != nil {
		return item, nil
	}
	if item := pickFuzzy(items, entry.Title); item != nil {
		m.logger.Debug("fuzzy-matched item", "wanted", entry.Title, "got", item.Title)
		return item, nil
	}

	return nil, domain.ErrItemNotFound
}

// checkStrategyErr decides whether a strategy error aborts matching or just
// falls through to the next strategy
func (m *Matcher) checkStrategyErr(ctx context.Context, err error, strategy, title string) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, domain.ErrAuthFailed) {
		return err
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		m.logger.Warn("match strategy failed", "strategy", strategy, "title", title, "error", err)
	}
	return nil
}

// titlesEqual compares titles case-insensitively, ignoring surrounding space
func titlesEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// pickByTitle returns the first candidate whose title matches exactly
// (case-insensitive), or nil
func pickByTitle(items []*domain.MediaItem, title string) *domain.MediaItem {
	for _, item := range items {
		if titlesEqual(item.Title, title) {
			return item
		}
	}
	return nil
}

// pickFuzzy ranks candidates against the wanted title with normalized
// case-folded fuzzy matching and returns the best-ranked hit, or nil
func pickFuzzy(items []*domain.MediaItem, title string) *domain.MediaItem {
	var best *domain.MediaItem
	bestRank := -1
	for _, item := range items {
		rank := fuzzy.RankMatchNormalizedFold(title, item.Title)
		if rank < 0 {
			continue
		}
		if best == nil || rank < bestRank {
			best = item
			bestRank = rank
		}
	}
	return best
}
