package library

import (
	"fmt"
	"io"
	"net/url"
	"path"

	"golang.org/x/net/html"
)

// ParseListing extracts audio filenames from an HTML directory listing.
//
// Every <a href> whose path ends in ext (case-insensitive) contributes its final path segment, percent-decoded,
// in document order. Hrefs may be relative or absolute; query strings and fragments are ignored.
func ParseListing(r io.Reader, ext string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	tracks := []string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if name, ok := trackFromHref(attr(n, "href"), ext); ok {
				tracks = append(tracks, name)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tracks, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func trackFromHref(href, ext string) (string, bool) {
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !HasExtension(u.Path, ext) {
		return "", false
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", false
	}
	return name, true
}
