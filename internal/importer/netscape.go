// Package importer loads browser bookmark exports into the bookmark service.
package importer

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Link is one bookmark found in an export file.
type Link struct {
	URL     string
	Title   string
	Folder  string
	AddedAt time.Time
}

// ParseNetscape reads a Netscape bookmark file (the format every major
// browser exports) and returns its http(s) links in document order. Links
// repeated in the file are returned once.
func ParseNetscape(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmarks html: %w", err)
	}

	var links []Link
	seen := make(map[string]bool)

	// Folder names are pushed when their <DL> opens and popped when it closes.
	var folders []string
	pending := ""

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pending = getTextContent(n)
				return
			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if !isWebURL(href) || seen[href] {
					return
				}
				seen[href] = true
				title := getTextContent(n)
				if title == "" {
					title = href
				}
				link := Link{URL: href, Title: title}
				if len(folders) > 0 {
					link.Folder = folders[len(folders)-1]
				}
				if ts, err := strconv.ParseInt(getAttr(n, "add_date"), 10, 64); err == nil && ts > 0 {
					link.AddedAt = time.Unix(ts, 0)
				}
				links = append(links, link)
				return
			case "dl":
				pushed := false
				if pending != "" {
					folders = append(folders, pending)
					pending = ""
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					folders = folders[:len(folders)-1]
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return links, nil
}

func isWebURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// getTextContent returns the trimmed text beneath n.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
