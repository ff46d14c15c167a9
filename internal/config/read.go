package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nDmitry/titckfeed/internal/entity"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors entity.Config in the YAML file. Keys left out of the
// file keep their default values.
type fileConfig struct {
	URL            string             `yaml:"url"`
	Output         string             `yaml:"output"`
	MaxItems       int                `yaml:"maxItems"`
	UserAgent      string             `yaml:"userAgent"`
	RequestTimeout time.Duration      `yaml:"requestTimeout"`
	Timezone       string             `yaml:"timezone"`
	Channel        fileChannel        `yaml:"channel"`
	Site           entity.SiteProfile `yaml:"site"`
}

type fileChannel struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
}

// Read loads a YAML config file on top of the defaults.
func Read(configPath string) (*entity.Config, error) {
	contents, err := os.ReadFile(configPath)

	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	return Parse(contents)
}

// Parse decodes YAML config contents on top of the defaults.
func Parse(contents []byte) (*entity.Config, error) {
	def := Default()

	fc := fileConfig{
		URL:            def.ListingURL,
		Output:         def.OutputPath,
		MaxItems:       def.MaxItems,
		UserAgent:      def.UserAgent,
		RequestTimeout: def.RequestTimeout,
		Timezone:       def.Location.String(),
		Channel: fileChannel{
			Title:       def.Channel.Title,
			Link:        def.Channel.Link,
			Description: def.Channel.Description,
		},
		Site: def.Site,
	}

	if err := yaml.Unmarshal(contents, &fc); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	loc, err := time.LoadLocation(fc.Timezone)

	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", fc.Timezone, err)
	}

	return &entity.Config{
		ListingURL:     fc.URL,
		OutputPath:     fc.Output,
		MaxItems:       fc.MaxItems,
		UserAgent:      fc.UserAgent,
		RequestTimeout: fc.RequestTimeout,
		Location:       loc,
		Channel: entity.ChannelMeta{
			Title:       fc.Channel.Title,
			Link:        fc.Channel.Link,
			Description: fc.Channel.Description,
		},
		Site: fc.Site,
	}, nil
}
