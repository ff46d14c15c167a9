package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nDmitry/titckfeed/internal/app"
	"github.com/nDmitry/titckfeed/internal/datetime"
	"github.com/nDmitry/titckfeed/internal/entity"
)

var (
	// ErrListingUnavailable is returned when the listing page could not be fetched
	ErrListingUnavailable = errors.New("listing page unavailable")
	// ErrNoLinks is returned when the listing page has no announcement links,
	// which usually means the site layout has changed
	ErrNoLinks = errors.New("no announcement links found")
)

// Scraper walks a listing page and turns every announcement into a record.
type Scraper struct {
	fetcher    Fetcher
	profile    *entity.SiteProfile
	normalizer *datetime.Normalizer
	logger     *slog.Logger
	now        func() time.Time
}

// NewScraper creates a scraper fetching pages with fetcher.
func NewScraper(fetcher Fetcher, cfg *entity.Config) *Scraper {
	return &Scraper{
		fetcher:    fetcher,
		profile:    &cfg.Site,
		normalizer: datetime.NewNormalizer(cfg.Location),
		logger:     app.Logger(),
		now:        time.Now,
	}
}

// NewDefaultScraper creates a scraper backed by a colly fetcher.
func NewDefaultScraper(cfg *entity.Config) *Scraper {
	return NewScraper(NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout), cfg)
}

// Scrape fetches the listing page and up to maxItems announcements, one at a time.
// A failing announcement is logged and skipped; only a missing listing page or
// a listing without links fails the whole run. maxItems <= 0 means no limit.
func (s *Scraper) Scrape(ctx context.Context, listingURL string, maxItems int) ([]entity.Record, error) {
	listingHTML, err := s.fetcher.Fetch(ctx, listingURL)

	if err != nil {
		s.logger.Warn("Could not fetch listing page", "url", listingURL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	links, err := ExtractLinks(listingHTML, listingURL, s.profile)

	if err != nil {
		return nil, fmt.Errorf("could not extract links from %s: %w", listingURL, err)
	}

	s.logger.Info("Found announcement links", "url", listingURL, "count", len(links))

	if len(links) == 0 {
		return nil, ErrNoLinks
	}

	if maxItems > 0 && len(links) > maxItems {
		links = links[:maxItems]
	}

	records := make([]entity.Record, 0, len(links))

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, ok := s.process(ctx, link)

		if ok {
			records = append(records, record)
		}
	}

	return records, nil
}

func (s *Scraper) process(ctx context.Context, link string) (entity.Record, bool) {
	if IsBinaryLink(link, s.profile.BinaryExtensions) {
		s.logger.Info("Linking file without fetching", "url", link)
		return BinaryRecord(link, s.now()), true
	}

	s.logger.Info("Processing announcement", "url", link)

	pageHTML, err := s.fetcher.Fetch(ctx, link)

	if err != nil {
		s.logger.Warn("Could not fetch announcement page", "url", link, "error", err)
		return entity.Record{}, false
	}

	record, err := ExtractPage(pageHTML, link, s.profile, s.normalizer)

	if err != nil {
		s.logger.Warn("Could not extract announcement", "url", link, "error", err)
		return entity.Record{}, false
	}

	if record.PubDate == "" {
		s.logger.Debug("Announcement date not found", "url", link)
	}

	return record, true
}
