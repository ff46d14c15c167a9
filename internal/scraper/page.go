package scraper

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/titckfeed/internal/datetime"
	"github.com/nDmitry/titckfeed/internal/entity"
	"github.com/nDmitry/titckfeed/internal/sanitize"
)

// strippedSelector lists elements that never belong to an announcement body.
const strippedSelector = "script, style, nav, form, footer, header"

var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	dateAttrRegex       = regexp.MustCompile(`(?i)(tarih|date|posted|time)`)
	datePatternRegex    = regexp.MustCompile(`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}\.\d{1,2}\.\d{4}`)
)

// pageStrategy pulls one candidate value out of a page, or returns "".
type pageStrategy func(doc *goquery.Document, profile *entity.SiteProfile) string

var titleStrategies = []pageStrategy{
	titleFromSiteSelector,
	titleFromHeadings,
	titleFromDocumentTitle,
}

var dateStrategies = []pageStrategy{
	dateFromSiteSelector,
	dateFromTimeElement,
	dateFromDateLikeAttrs,
	dateFromSmall,
}

// ExtractPage turns a single announcement page into a record.
// Missing pieces degrade to defaults instead of failing: a placeholder title,
// an empty date and the whole body as content.
func ExtractPage(
	pageHTML string,
	pageURL string,
	profile *entity.SiteProfile,
	norm *datetime.Normalizer,
) (entity.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))

	if err != nil {
		return entity.Record{}, fmt.Errorf("could not parse announcement html %s: %w", pageURL, err)
	}

	title := strings.TrimSpace(sanitize.XML(firstMatch(doc, profile, titleStrategies)))

	if title == "" {
		title = sanitize.XML(profile.PlaceholderTitle)
	}

	// The date must be read before the content container is cleaned up,
	// since the date label is stripped from it.
	rawDate := firstMatch(doc, profile, dateStrategies)

	description, err := extractContent(doc, profile)

	if err != nil {
		return entity.Record{}, fmt.Errorf("could not serialize content of %s: %w", pageURL, err)
	}

	return entity.Record{
		Title:       title,
		Link:        pageURL,
		Description: description,
		PubDate:     norm.Normalize(rawDate),
	}, nil
}

func firstMatch(doc *goquery.Document, profile *entity.SiteProfile, strategies []pageStrategy) string {
	for _, s := range strategies {
		if v := s(doc, profile); v != "" {
			return v
		}
	}

	return ""
}

func titleFromSiteSelector(doc *goquery.Document, profile *entity.SiteProfile) string {
	if profile.TitleSelector == "" {
		return ""
	}

	return firstText(doc.Find(profile.TitleSelector))
}

func titleFromHeadings(doc *goquery.Document, _ *entity.SiteProfile) string {
	for _, tag := range []string{"h1", "h2", "h3"} {
		if text := firstText(doc.Find(tag)); text != "" {
			return text
		}
	}

	return ""
}

func titleFromDocumentTitle(doc *goquery.Document, _ *entity.SiteProfile) string {
	return cleanText(doc.Find("title").First().Text())
}

func dateFromSiteSelector(doc *goquery.Document, profile *entity.SiteProfile) string {
	if profile.DateSelector == "" {
		return ""
	}

	return firstText(doc.Find(profile.DateSelector))
}

func dateFromTimeElement(doc *goquery.Document, _ *entity.SiteProfile) string {
	t := doc.Find("time").First()

	if t.Length() == 0 {
		return ""
	}

	if dt := strings.TrimSpace(t.AttrOr("datetime", "")); dt != "" {
		return dt
	}

	return cleanText(t.Text())
}

func dateFromDateLikeAttrs(doc *goquery.Document, _ *entity.SiteProfile) string {
	var found string

	doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !dateAttrRegex.MatchString(s.AttrOr("class", "")) && !dateAttrRegex.MatchString(s.AttrOr("id", "")) {
			return true
		}

		if text := cleanText(s.Text()); datePatternRegex.MatchString(text) {
			found = text
			return false
		}

		return true
	})

	return found
}

func dateFromSmall(doc *goquery.Document, _ *entity.SiteProfile) string {
	var found string

	doc.Find("small").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := cleanText(s.Text()); datePatternRegex.MatchString(text) {
			found = text
			return false
		}

		return true
	})

	return found
}

// extractContent picks the content container, strips page chrome from it
// and returns its inner HTML ready for the description field.
func extractContent(doc *goquery.Document, profile *entity.SiteProfile) (string, error) {
	container := findContentContainer(doc, profile.ContentSelectors)

	container.Find(strippedSelector).Remove()

	if profile.DateLabelSelector != "" {
		container.Find(profile.DateLabelSelector).Remove()
	}

	inner, err := container.Html()

	if err != nil {
		return "", err
	}

	return sanitize.XML(html.UnescapeString(strings.TrimSpace(inner))), nil
}

func findContentContainer(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		el := doc.Find(sel).First()

		if el.Length() > 0 && strings.TrimSpace(el.Text()) != "" {
			return el
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		return body.First()
	}

	return doc.Selection
}

// firstText returns the cleaned text of the first non-empty element in sel.
func firstText(sel *goquery.Selection) string {
	var text string

	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = cleanText(s.Text())
		return text == ""
	})

	return text
}

func cleanText(text string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(text, " "))
}
