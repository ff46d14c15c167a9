package entity

// Record is a single announcement ready to become an RSS item.
type Record struct {
	Title string
	// Link is the absolute URL of the announcement, also used as the guid.
	Link        string
	Description string
	// PubDate is RFC-2822 formatted, or empty if the date could not be determined.
	PubDate string
}

// ChannelMeta describes the RSS channel wrapping the records.
type ChannelMeta struct {
	Title       string
	Link        string
	Description string
}
