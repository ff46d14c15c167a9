package scraper

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/nDmitry/titckfeed/internal/datetime"
	"github.com/nDmitry/titckfeed/internal/entity"
	"github.com/nDmitry/titckfeed/internal/sanitize"
)

const binaryTitlePrefix = "File: "

// IsBinaryLink reports whether link points at a file that cannot be parsed as HTML,
// judged by the extension of its path.
func IsBinaryLink(link string, extensions []string) bool {
	p := link

	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}

	p = strings.ToLower(p)

	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(p, strings.ToLower(ext)) {
			return true
		}
	}

	return false
}

// BinaryRecord builds a placeholder record linking to a file.
func BinaryRecord(link string, now time.Time) entity.Record {
	name := fileName(link)

	return entity.Record{
		Title: sanitize.XML(binaryTitlePrefix + name),
		Link:  link,
		Description: sanitize.XML(fmt.Sprintf(
			`<a href="%s">%s</a>`,
			html.EscapeString(link),
			html.EscapeString(name),
		)),
		PubDate: datetime.Format(now),
	}
}

func fileName(link string) string {
	u, err := url.Parse(link)

	if err != nil {
		return path.Base(link)
	}

	name := path.Base(u.Path)

	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	if name == "." || name == "/" {
		return link
	}

	return name
}
