package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLExportSource reads a sheet through its HTML export endpoint. This is
// the alternate channel for sheets shared "anyone with the link" where the
// API channel has no grant.
type HTMLExportSource struct {
	client *http.Client
}

func NewHTMLExportSource(client *http.Client) *HTMLExportSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTMLExportSource{client: client}
}

var _ GridSource = (*HTMLExportSource)(nil)

// Fetch downloads the gviz HTML export and walks its first table.
func (s *HTMLExportSource) Fetch(ctx context.Context, ref string) ([][]string, error) {
	id, err := ParseSpreadsheetRef(ref)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:html", id)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceAccess, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceAccess, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[HTMLExport] status=%d for %s", resp.StatusCode, id)
		return nil, fmt.Errorf("%w: export returned status %d", ErrSourceAccess, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceAccess, err)
	}

	grid := GridFromDocument(doc)
	log.Printf("[HTMLExport] fetched %d rows from %s", len(grid), id)
	return grid, nil
}

// GridFromHTML parses the first table of an HTML document into a raw grid.
func GridFromHTML(html string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return GridFromDocument(doc), nil
}

// GridFromDocument walks the first table, one grid row per tr, preserving
// empty cells so column indexes line up with the header row.
func GridFromDocument(doc *goquery.Document) [][]string {
	var grid [][]string
	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(j int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			grid = append(grid, cells)
		}
	})
	return grid
}
