// Command chartscrape converts a saved HTML chart page (rank/title/artist
// table rows) into the developer-mode catalog fixture. The generated Go
// literal is printed to stdout for pasting into internal/catalog/mock.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type chartEntry struct {
	Rank   int
	Title  string
	Artist string
	Album  string
}

func main() {
	genre := flag.String("genre", "", "Genre to stamp on every generated track")
	year := flag.Int("year", 0, "Release year to stamp on every generated track")
	rowSelector := flag.String("rows", "table tr", "CSS selector for chart rows")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: chartscrape [flags] <chart.html>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open chart page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse HTML: %v\n", err)
		os.Exit(1)
	}

	entries := extractEntries(doc, *rowSelector)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no chart rows found")
		os.Exit(1)
	}

	printFixture(entries, *genre, *year)
}

func extractEntries(doc *goquery.Document, rowSelector string) []chartEntry {
	var entries []chartEntry

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			// Header or malformed row
			return
		}

		rank, err := strconv.Atoi(cellText(cells.Eq(0)))
		if err != nil {
			return
		}

		entry := chartEntry{
			Rank:   rank,
			Title:  cellText(cells.Eq(1)),
			Artist: cellText(cells.Eq(2)),
		}
		if cells.Length() > 3 {
			entry.Album = cellText(cells.Eq(3))
		}
		if entry.Title == "" || entry.Artist == "" {
			return
		}

		entries = append(entries, entry)
	})

	return entries
}

// cellText collapses the cell's text to single-spaced words, dropping
// the newlines and indentation chart pages carry inside table cells.
func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func printFixture(entries []chartEntry, genre string, year int) {
	fmt.Println("// Generated by cmd/chartscrape - copy into internal/catalog/mock/tracks.go")
	fmt.Println("var mockTracks = []search.Track{")
	for i, e := range entries {
		fmt.Printf("\t{ID: %q, Name: %q, Artist: %q, Album: %q, Genre: %q, Year: %d, Popularity: %d},\n",
			fmt.Sprintf("mock-%04d", i+1), e.Title, e.Artist, e.Album, genre, year, popularityForRank(e.Rank))
	}
	fmt.Println("}")
}

// popularityForRank maps a chart position onto the 0-100 popularity
// scale the catalog uses: rank 1 lands at 99, each position steps down,
// bottoming out at 50.
func popularityForRank(rank int) int {
	p := 100 - rank
	if p < 50 {
		p = 50
	}
	if p > 99 {
		p = 99
	}
	return p
}
