package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/storefront-catalog/internal/catalog"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	matchTag     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	ratingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ItemJSON is the JSON output shape for a catalog item.
type ItemJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Genres      []string `json:"genres"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Popularity  float64  `json:"popularity"`
	MatchScore  *float64 `json:"matchScore,omitempty"`
	Signal      string   `json:"signal,omitempty"`
}

// PageJSON is the JSON output shape for a result page.
type PageJSON struct {
	Items    []ItemJSON           `json:"items"`
	Page     int                  `json:"page"`
	Pages    int                  `json:"pages"`
	Total    int                  `json:"total"`
	SortedBy string               `json:"sortedBy"`
	Filters  catalog.FilterState  `json:"filters"`
	Facets   *catalog.FacetCounts `json:"facets,omitempty"`
}

// RangeJSON is the JSON output shape for a price range summary row.
type RangeJSON struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Count    int      `json:"count"`
	TopTitle string   `json:"topTitle,omitempty"`
}

// Listing bundles what PrintPage needs besides the page itself.
type Listing struct {
	Page       catalog.Page
	State      catalog.FilterState
	Comparator catalog.Comparator
	Facets     *catalog.FacetCounts
	Ranges     []catalog.PriceRange
}

// PrintPage renders one page of results to the writer.
func PrintPage(w io.Writer, l Listing) {
	heading := "Catalog"
	if term := strings.TrimSpace(l.State.SearchTerm); term != "" {
		heading = fmt.Sprintf("Results for %q", term)
	}
	fmt.Fprintf(w, "\n%s — %s %s\n",
		headerStyle.Render(heading),
		cyanStyle.Render(fmt.Sprintf("%d items", l.Page.Total)),
		dimStyle.Render(fmt.Sprintf("(page %d/%d, sorted by %s)", l.Page.Number, l.Page.Pages, l.Comparator)),
	)
	if summary := FilterSummary(l.State); summary != "" {
		fmt.Fprintf(w, "%s\n", dimStyle.Render("filters: "+summary))
	}
	fmt.Fprintln(w)

	offset := (l.Page.Number - 1) * l.Page.Size
	for i, item := range l.Page.Items {
		printItem(w, offset+i+1, item)
		fmt.Fprintln(w)
	}

	if l.Facets != nil {
		PrintFacets(w, *l.Facets, l.Ranges)
	}
}

// PrintPageJSON renders a page of results as JSON.
func PrintPageJSON(w io.Writer, l Listing) error {
	out := PageJSON{
		Items:    make([]ItemJSON, 0, len(l.Page.Items)),
		Page:     l.Page.Number,
		Pages:    l.Page.Pages,
		Total:    l.Page.Total,
		SortedBy: l.Comparator.String(),
		Filters:  l.State,
		Facets:   l.Facets,
	}
	for _, item := range l.Page.Items {
		out.Items = append(out.Items, ToItemJSON(item))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintFacets renders facet counts grouped by filter control.
func PrintFacets(w io.Writer, f catalog.FacetCounts, ranges []catalog.PriceRange) {
	fmt.Fprintf(w, "%s\n", titleStyle.Render("Price"))
	for _, r := range ranges {
		fmt.Fprintf(w, "  %s %s: %d\n", cyanStyle.Render(r.ID), dimStyle.Render("("+r.Label+")"), f.PriceRanges[strings.ToLower(r.ID)])
	}
	printBuckets(w, "Genres", catalog.Sorted(f.Genres))
	printBuckets(w, "Tags", catalog.Sorted(f.Tags))
	fmt.Fprintln(w)
}

// PrintFacetsJSON renders facet counts as JSON.
func PrintFacetsJSON(w io.Writer, f catalog.FacetCounts) error {
	return json.NewEncoder(w).Encode(f)
}

// PrintRanges renders the price range summary table.
func PrintRanges(w io.Writer, rows []RangeJSON) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Price ranges"))
	for _, r := range rows {
		bounds := fmt.Sprintf("%.2f+", r.Min)
		if r.Max != nil {
			bounds = fmt.Sprintf("%.2f–%.2f", r.Min, *r.Max)
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", cyanStyle.Render(r.ID), titleStyle.Render(r.Label), dimStyle.Render(bounds))
		fmt.Fprintf(w, "        %d items", r.Count)
		if r.TopTitle != "" {
			fmt.Fprintf(w, " | top: %s", r.TopTitle)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// PrintRangesJSON renders the price range summary as JSON.
func PrintRangesJSON(w io.Writer, rows []RangeJSON) error {
	return json.NewEncoder(w).Encode(rows)
}

// PrintHistory renders recent search terms.
func PrintHistory(w io.Writer, terms []string) {
	if len(terms) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No recent searches."))
		return
	}
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Recent searches:"))
	for i, term := range terms {
		fmt.Fprintf(w, "  %s %s\n", cyanStyle.Render(fmt.Sprintf("%2d.", i+1)), term)
	}
	fmt.Fprintln(w)
}

// PrintHistoryJSON renders recent search terms as JSON.
func PrintHistoryJSON(w io.Writer, terms []string) error {
	if terms == nil {
		terms = []string{}
	}
	return json.NewEncoder(w).Encode(terms)
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// FilterSummary describes the active filters in one line, or "" when none.
func FilterSummary(s catalog.FilterState) string {
	var parts []string
	if s.PriceRangeID != "" {
		parts = append(parts, "price:"+s.PriceRangeID)
	}
	if len(s.Genres) > 0 {
		parts = append(parts, "genre:"+strings.Join(s.Genres, "|"))
	}
	if len(s.Tags) > 0 {
		parts = append(parts, "tags:"+strings.Join(s.Tags, "+"))
	}
	return strings.Join(parts, ", ")
}

// ItemTitle returns a displayable title, falling back to the id.
func ItemTitle(item catalog.Item) string {
	if title := catalog.CleanText(item.Title); title != "" {
		return title
	}
	if item.ID != "" {
		return "Item " + item.ID
	}
	return "Untitled"
}

// FormatPrice renders a price, using "Free" for zero.
func FormatPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return fmt.Sprintf("%.2f", p)
}

func printBuckets(w io.Writer, name string, buckets []catalog.FacetBucket) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", titleStyle.Render(name))
	for _, b := range buckets {
		fmt.Fprintf(w, "  %s: %d\n", cyanStyle.Render(b.Key), b.Count)
	}
}

func printItem(w io.Writer, n int, item catalog.Scored) {
	tag := ""
	if item.HasScore {
		tag = " " + matchTag.Render(fmt.Sprintf("[%s %.0f]", item.Signal, item.MatchScore))
	}
	fmt.Fprintf(w, "  %s %s%s\n", dimStyle.Render(fmt.Sprintf("%d.", n)), titleStyle.Render(ItemTitle(item.Item)), tag)

	parts := []string{priceStyle.Render(FormatPrice(item.Price))}
	if item.Rating > 0 {
		parts = append(parts, ratingStyle.Render(fmt.Sprintf("★ %.1f", item.Rating)))
	}
	if !item.ReleaseDate.IsZero() {
		parts = append(parts, item.ReleaseDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "    %s\n", strings.Join(parts, " | "))

	var meta []string
	if len(item.Genres) > 0 {
		meta = append(meta, strings.Join(item.Genres, ", "))
	}
	if len(item.Tags) > 0 {
		meta = append(meta, wordWrap(strings.Join(item.Tags, ", "), 64, "    "))
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(strings.Join(meta, " | ")))
	}
}

// ToItemJSON converts a result row to its JSON shape.
func ToItemJSON(item catalog.Scored) ItemJSON {
	out := ItemJSON{
		ID:         item.ID,
		Title:      catalog.CleanText(item.Title),
		Price:      item.Price,
		Genres:     nonNil(item.Genres),
		Tags:       nonNil(item.Tags),
		Rating:     item.Rating,
		Popularity: item.Popularity,
	}
	if !item.ReleaseDate.IsZero() {
		out.ReleaseDate = item.ReleaseDate.Format("2006-01-02")
	}
	if item.HasScore {
		score := item.MatchScore
		out.MatchScore = &score
		out.Signal = string(item.Signal)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
