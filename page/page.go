// Package page fetches web pages and splits them into the assets that get
// stored: markup, style sheets and image links.
package page

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
)

// maxPageSize bounds the body read by Fetch.
const maxPageSize = 16 << 20

var (
	styleBlock = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	divStyle   = regexp.MustCompile(`(?is)<div[^>]*style="([^"]*)"[^>]*>`)
	imageLink  = regexp.MustCompile(`(?i)<[^>]*(?:src|href)="([^"]*(?:png|jpg|jpeg|gif|bmp|svg)[^"]*)"[^>]*>`)
)

// Fetch downloads the page at rawURL. Non-2xx responses are errors.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("page: invalid url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("page: fetch %s: %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("page: read %s: %w", rawURL, err)
	}
	return body, nil
}

// ExtractStyles returns the trimmed content of every <style> block followed
// by every inline div style attribute, one per line.
func ExtractStyles(doc []byte) []byte {
	var out bytes.Buffer
	for _, m := range styleBlock.FindAllSubmatch(doc, -1) {
		out.Write(bytes.TrimSpace(m[1]))
		out.WriteByte('\n')
	}
	for _, m := range divStyle.FindAllSubmatch(doc, -1) {
		out.Write(bytes.TrimSpace(m[1]))
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// ExtractImages returns the src or href values that point at images, one per
// line.
func ExtractImages(doc []byte) []byte {
	var out bytes.Buffer
	for _, m := range imageLink.FindAllSubmatch(doc, -1) {
		out.Write(m[1])
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// BuildView assembles the viewer page from stored assets: the styles go in
// the head, followed by the markup and one <img> per image link.
func BuildView(markup, styles, images []byte) []byte {
	var out bytes.Buffer
	out.WriteString("<html><head><title>Saved page</title><style>")
	out.Write(styles)
	out.WriteString("</style></head><body>")
	out.Write(markup)
	for _, line := range bytes.Split(images, []byte{'\n'}) {
		if line = bytes.TrimSpace(line); len(line) == 0 {
			continue
		}
		fmt.Fprintf(&out, `<img src="%s">`, html.EscapeString(string(line)))
	}
	out.WriteString("</body></html>")
	return out.Bytes()
}

// BuildIndex renders the list of saved URLs, each linking to viewBase with
// the URL in the url query parameter.
func BuildIndex(urls []string, viewBase string) []byte {
	var out bytes.Buffer
	out.WriteString("<html><head><title>Saved pages</title></head><body><ul>")
	for _, u := range urls {
		fmt.Fprintf(&out, `<li><a href="%s?url=%s">%s</a></li>`,
			viewBase, url.QueryEscape(u), html.EscapeString(u))
	}
	out.WriteString("</ul></body></html>")
	return out.Bytes()
}
