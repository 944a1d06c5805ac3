package labels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchSheet downloads a published spreadsheet page. A timestamp query parameter is
// appended so intermediate caches never serve a stale copy.
func FetchSheet(ctx context.Context, client *http.Client, pageURL string) ([]byte, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return body, nil
}

// ParseMessages returns the text of the second cell of every table row but the
// first, which holds the column headers. Rows without a second cell yield "".
func ParseMessages(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}

	var rows []*html.Node
	var walk func(n *html.Node, inTable bool)
	walk = func(n *html.Node, inTable bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Table:
				inTable = true
			case atom.Tr:
				if inTable {
					rows = append(rows, n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTable)
		}
	}
	walk(doc, false)

	if len(rows) == 0 {
		return []string{}, nil
	}

	messages := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := findAll(row, atom.Td)
		message := ""
		if len(cells) > 1 {
			message = strings.TrimSpace(innerText(cells[1]))
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			found = append(found, c)
		}
		found = append(found, findAll(c, a)...)
	}
	return found
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
