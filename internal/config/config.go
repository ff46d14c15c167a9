package config

import (
	"fmt"
	"time"

	"github.com/nDmitry/titckfeed/internal/entity"
)

const (
	DefaultListingURL = "https://titck.gov.tr/duyuru?page=1"
	DefaultOutputPath = "feed.xml"
	DefaultMaxItems   = 30
	DefaultUserAgent  = "titck-rss-generator/1.0 (+https://github.com/)"
	DefaultTimeout    = 15 * time.Second
)

// Default returns the configuration for the TİTCK announcement listing.
func Default() *entity.Config {
	return &entity.Config{
		ListingURL:     DefaultListingURL,
		OutputPath:     DefaultOutputPath,
		MaxItems:       DefaultMaxItems,
		UserAgent:      DefaultUserAgent,
		RequestTimeout: DefaultTimeout,
		Location:       time.UTC,
		Channel: entity.ChannelMeta{
			Title:       "TİTCK Duyurular (otomatik)",
			Link:        DefaultListingURL,
			Description: "T.C. Türkiye İlaç ve Tıbbi Cihaz Kurumu duyuruları (otomatik oluşturulmuş RSS)",
		},
		Site: DefaultSiteProfile(),
	}
}

// DefaultSiteProfile returns the heuristics tuned for titck.gov.tr.
func DefaultSiteProfile() entity.SiteProfile {
	return entity.SiteProfile{
		AnnouncementMarkers: []string{"duyuru"},
		ExcludeMarkers:      []string{"page=", "tab=", "javascript:"},
		ListingRoots:        []string{"/duyuru", "/duyurular"},
		TitleSelector:       ".duyuru-baslik",
		DateSelector:        ".duyuru-tarih",
		DateLabelSelector:   ".duyuru-tarih",
		ContentSelectors: []string{
			"div.duyuru-content",
			"div.duyuru-detay",
			"article",
			"div.icerik",
			"div.content",
			"div#content",
			"div.panel-body",
			"div.container",
			"main",
		},
		PlaceholderTitle: "Başlıksız duyuru",
		BinaryExtensions: []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".ods",
			".zip", ".rar", ".7z",
			".jpg", ".jpeg", ".png", ".gif",
		},
	}
}

// Validate checks the values that would make a run meaningless.
func Validate(cfg *entity.Config) error {
	if cfg.ListingURL == "" {
		return fmt.Errorf("listing url is required")
	}

	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}

	if cfg.MaxItems <= 0 {
		return fmt.Errorf("max items must be positive, got %d", cfg.MaxItems)
	}

	if len(cfg.Site.AnnouncementMarkers) == 0 {
		return fmt.Errorf("at least one announcement marker is required")
	}

	if cfg.Site.PlaceholderTitle == "" {
		return fmt.Errorf("placeholder title is required")
	}

	return nil
}
