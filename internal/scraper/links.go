package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/titckfeed/internal/entity"
)

// ExtractLinks returns unique absolute announcement URLs found in a listing page,
// in document order.
func ExtractLinks(html string, baseURL string, profile *entity.SiteProfile) ([]string, error) {
	base, err := url.Parse(baseURL)

	if err != nil {
		return nil, fmt.Errorf("could not parse base url %s: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	if err != nil {
		return nil, fmt.Errorf("could not parse listing html: %w", err)
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))

		if !isAnnouncementHref(href, profile) {
			return
		}

		ref, err := url.Parse(href)

		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)

		if isListingRoot(resolved, profile.ListingRoots) || hasMarker(resolved.String(), profile.ExcludeMarkers) {
			return
		}

		link := resolved.String()

		if _, ok := seen[link]; ok {
			return
		}

		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links, nil
}

func isAnnouncementHref(href string, profile *entity.SiteProfile) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}

	if hasMarker(href, profile.ExcludeMarkers) {
		return false
	}

	return hasMarker(href, profile.AnnouncementMarkers)
}

// hasMarker reports whether s contains any of the markers, ignoring case.
func hasMarker(s string, markers []string) bool {
	s = strings.ToLower(s)

	for _, m := range markers {
		if m != "" && strings.Contains(s, strings.ToLower(m)) {
			return true
		}
	}

	return false
}

// isListingRoot matches the bare listing path with or without a trailing slash.
// A query string means it is some other view of the listing, which the
// exclude markers deal with.
func isListingRoot(u *url.URL, roots []string) bool {
	if u.RawQuery != "" {
		return false
	}

	path := strings.TrimSuffix(u.Path, "/")

	for _, root := range roots {
		if strings.EqualFold(path, strings.TrimSuffix(root, "/")) {
			return true
		}
	}

	return false
}
