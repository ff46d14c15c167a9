package feed

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/titckfeed/internal/entity"
)

// Generator builds RSS documents stamped with the current time
type Generator struct{}

// Generate implements the rest.Generator interface
func (g *Generator) Generate(meta *entity.ChannelMeta, records []entity.Record) ([]byte, error) {
	return Generate(meta, records, time.Now())
}

// Generate creates an RSS 2.0 document out of records, in their order.
// now becomes the channel lastBuildDate.
func Generate(meta *entity.ChannelMeta, records []entity.Record, now time.Time) ([]byte, error) {
	feed := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: meta.Link},
		Description: meta.Description,
		Updated:     now,
	}

	for _, r := range records {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          r.Link,
			Title:       r.Title,
			Link:        &feeds.Link{Href: r.Link},
			Description: r.Description,
		})
	}

	rss := (&feeds.Rss{Feed: feed}).RssFeed()

	// Only lastBuildDate is wanted on the channel.
	rss.PubDate = ""

	for i, r := range records {
		rss.Items[i].PubDate = r.PubDate
	}

	content, err := feeds.ToXML(rss)

	if err != nil {
		return nil, fmt.Errorf("could not marshal %d records to RSS: %w", len(records), err)
	}

	return []byte(content), nil
}
