package entity

import "time"

// Config is everything a run needs, resolved from defaults, the config file and flags.
type Config struct {
	ListingURL     string
	OutputPath     string
	MaxItems       int
	UserAgent      string
	RequestTimeout time.Duration
	Location       *time.Location
	Channel        ChannelMeta
	Site           SiteProfile
}

// SiteProfile holds the site-specific heuristics used by the link and page extractors.
type SiteProfile struct {
	// AnnouncementMarkers are matched case-insensitively against link hrefs.
	AnnouncementMarkers []string `yaml:"announcementMarkers"`
	// ExcludeMarkers reject pagination, tab and script links.
	ExcludeMarkers []string `yaml:"excludeMarkers"`
	// ListingRoots are paths of the listing itself, never an announcement.
	ListingRoots []string `yaml:"listingRoots"`

	TitleSelector     string   `yaml:"titleSelector"`
	DateSelector      string   `yaml:"dateSelector"`
	DateLabelSelector string   `yaml:"dateLabelSelector"`
	ContentSelectors  []string `yaml:"contentSelectors"`
	PlaceholderTitle  string   `yaml:"placeholderTitle"`

	BinaryExtensions []string `yaml:"binaryExtensions"`
}
