package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/display"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiValueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiSignalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type tuiLoadConfig struct {
	ctx          context.Context
	opts         catalog.Options
	load         tuiLoader
	initialState catalog.FilterState
	initialSort  catalog.SortKey
}

type tuiDataLoadedMsg struct {
	items []catalog.Item
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
	tuiFocusSearch
)

type tuiResultItem struct {
	result      catalog.Scored
	title       string
	description string
}

func (r tuiResultItem) FilterValue() string { return strings.ToLower(r.title) }
func (r tuiResultItem) Title() string       { return r.title }
func (r tuiResultItem) Description() string { return r.description }

// catalogTUIModel is the two-pane catalog browser. Every filter change
// replaces state wholesale and goes through the memoising controller.
type catalogTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	allItems   []catalog.Item
	controller *catalog.Controller
	ranges     []catalog.PriceRange
	results    catalog.Results

	state        catalog.FilterState
	initialState catalog.FilterState
	sortKey      catalog.SortKey
	initialSort  catalog.SortKey

	sortIndex    int
	priceChoices []string
	priceIndex   int
	genreChoices []string
	genreIndex   int
	tagChoices   []string
	tagIndex     int

	list   list.Model
	detail viewport.Model
	search textinput.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingCatalogTUIModel(cfg tuiLoadConfig) catalogTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Catalog"
	lst.SetStatusBarItemName("item", "items")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "title, tag or alias"
	search.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	ranges := cfg.opts.PriceRanges
	if len(ranges) == 0 {
		ranges = catalog.DefaultPriceRanges()
	}
	initialSort := cfg.initialSort
	if initialSort == "" {
		initialSort = catalog.SortPopularity
	}

	return catalogTUIModel{
		loading:      true,
		spinner:      spin,
		loadCmd:      loadCatalogTUICmd(cfg),
		controller:   catalog.NewController(cfg.opts),
		ranges:       ranges,
		initialState: cfg.initialState,
		state:        cfg.initialState,
		initialSort:  initialSort,
		sortKey:      initialSort,
		list:         lst,
		detail:       detail,
		search:       search,
		focus:        tuiFocusList,
	}
}

func loadCatalogTUICmd(cfg tuiLoadConfig) tea.Cmd {
	if cfg.load == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := cfg.load(cfg.ctx)
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		return tuiDataLoadedMsg{items: items}
	}
}

func (m catalogTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd)
}

func (m catalogTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.allItems = msg.items
		m.state = m.initialState
		m.sortKey = m.initialSort
		m.applyCurrentFilters(true)
		m.initializeInlineChoices()
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	if m.focus == tuiFocusSearch {
		return m.updateSearch(msg)
	}

	if isKey {
		switch keyMsg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			if m.focus == tuiFocusList {
				m.focus = tuiFocusDetail
			} else {
				m.focus = tuiFocusList
			}
			return m, nil
		case "esc":
			if m.focus == tuiFocusDetail {
				m.focus = tuiFocusList
				return m, nil
			}
		case "?":
			m.showHelp = !m.showHelp
			m.resize()
			return m, nil
		case "/":
			m.focus = tuiFocusSearch
			m.search.SetValue(m.state.SearchTerm)
			m.search.CursorEnd()
			cmd := m.search.Focus()
			return m, cmd
		case "x":
			m.setSearchTerm("")
			return m, nil
		case "s":
			m.cycleSortKey()
			return m, nil
		case "p":
			m.cyclePriceRange()
			return m, nil
		case "g":
			m.cycleGenre()
			return m, nil
		case "t":
			m.cycleTag()
			return m, nil
		case "r":
			m.state = m.initialState
			m.sortKey = m.initialSort
			m.applyCurrentFilters(false)
			m.initializeInlineChoices()
			return m, nil
		}

		if m.focus == tuiFocusDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m catalogTUIModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.search.Blur()
			m.focus = tuiFocusList
			m.setSearchTerm(m.search.Value())
			return m, nil
		case "esc":
			m.search.Blur()
			m.search.SetValue(m.state.SearchTerm)
			m.focus = tuiFocusList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m catalogTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane catalog browser.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m catalogTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("storecli tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading catalog", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading results...          │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • price ranges              │  • price, rating and release date      │"),
		skeletonStyle.Render("│  • genre and tag facets      │  • genres, tags and aliases            │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *catalogTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 4
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = maxInt(8, m.height-headerH-footerH-1)

	listWidth := maxInt(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := maxInt(24, listWidth-4)
	detailInnerWidth := maxInt(24, detailWidth-4)
	panelInnerHeight := maxInt(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.search.Width = maxInt(20, m.width-12)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m catalogTUIModel) headerView() string {
	focus := "list"
	switch m.focus {
	case tuiFocusDetail:
		focus = "detail"
	case tuiFocusSearch:
		focus = "search"
	}

	top := fmt.Sprintf("storecli tui  |  %d items in catalog", len(m.allItems))
	bottom := fmt.Sprintf(
		"results: %d  |  sort: %s  |  filters: %s  |  focus: %s",
		len(m.results.Items), m.results.Comparator, m.activeFilterSummary(), focus,
	)

	searchLine := tuiMutedStyle.Render("search: " + emptyIf(m.state.SearchTerm, "(none, press / to search)"))
	if m.focus == tuiFocusSearch {
		searchLine = m.search.View()
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom) + "\n" + searchLine)
}

func (m catalogTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusDetail {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m catalogTUIModel) footerView() string {
	base := "Tab switch pane • / search • x clear search • s sort • p price • g genre • t tag • r reset • ? help • q quit"
	switch m.focus {
	case tuiFocusDetail:
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	case tuiFocusSearch:
		base = "Search: type a term • enter apply • esc cancel"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / search • x clear search",
		"filters: p price range • g genre • t tag (counts follow the current search)",
		"ordering: s cycle popularity, price, newest, rating (popularity means relevance while searching)",
		"global: tab switch pane • esc list • r reset inline options • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

// initializeInlineChoices rebuilds the cycle lists. Genre and tag choices
// come from the current facet counts, so call it after applyCurrentFilters.
func (m *catalogTUIModel) initializeInlineChoices() {
	m.priceChoices = make([]string, 0, len(m.ranges)+1)
	m.priceChoices = append(m.priceChoices, "")
	for _, r := range m.ranges {
		m.priceChoices = append(m.priceChoices, r.ID)
	}
	m.genreChoices = buildFacetChoices(m.results.Facets.Genres, m.state.Genres)
	m.tagChoices = buildFacetChoices(m.results.Facets.Tags, m.state.Tags)
	m.syncChoiceIndexes()
}

func (m *catalogTUIModel) syncChoiceIndexes() {
	m.sortIndex = maxInt(0, indexOfSortKey(catalog.SortKeys, m.sortKey))
	m.priceIndex = maxInt(0, indexOfStringFold(m.priceChoices, m.state.PriceRangeID))
	m.genreIndex = choiceIndex(m.genreChoices, m.state.Genres)
	m.tagIndex = choiceIndex(m.tagChoices, m.state.Tags)
}

func (m *catalogTUIModel) cycleSortKey() {
	m.sortIndex = (m.sortIndex + 1) % len(catalog.SortKeys)
	m.sortKey = catalog.SortKeys[m.sortIndex]
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cyclePriceRange() {
	if len(m.priceChoices) == 0 {
		return
	}
	m.priceIndex = (m.priceIndex + 1) % len(m.priceChoices)
	next := m.state
	next.PriceRangeID = m.priceChoices[m.priceIndex]
	m.state = next
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleGenre() {
	if len(m.genreChoices) == 0 {
		return
	}
	m.genreIndex = (m.genreIndex + 1) % len(m.genreChoices)
	next := m.state
	next.Genres = singleChoice(m.genreChoices[m.genreIndex])
	m.state = next
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleTag() {
	if len(m.tagChoices) == 0 {
		return
	}
	m.tagIndex = (m.tagIndex + 1) % len(m.tagChoices)
	next := m.state
	next.Tags = singleChoice(m.tagChoices[m.tagIndex])
	m.state = next
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) setSearchTerm(raw string) {
	term := strings.TrimSpace(raw)
	m.search.SetValue(term)
	if term == m.state.SearchTerm {
		return
	}
	next := m.state
	next.SearchTerm = term
	m.state = next
	m.applyCurrentFilters(true)
	// facet counts follow the search term
	m.initializeInlineChoices()
}

func (m catalogTUIModel) activeFilterSummary() string {
	summary := display.FilterSummary(m.state)
	if summary == "" {
		return "none"
	}
	if len(m.state.Genres) == 1 {
		summary += fmt.Sprintf(" (%d)", m.results.Facets.Genres[strings.ToLower(m.state.Genres[0])])
	}
	return summary
}

func (m *catalogTUIModel) applyCurrentFilters(resetSelection bool) {
	currentID := m.selectedID
	m.results = m.controller.Results(m.allItems, m.state, m.sortKey)

	items := buildResultListItems(m.results.Items)
	m.list.Title = fmt.Sprintf("Catalog • %d results", len(items))
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m *catalogTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected, ok := m.list.SelectedItem().(tuiResultItem); ok {
		content = renderItemDetailContent(selected.result, m.ranges, m.detail.Width)
		nextID = selected.result.ID
	}
	if content == "" {
		content = "No items match the current search and filters.\n\nPress x to clear the search or r to reset filters."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func buildResultListItems(results []catalog.Scored) []list.Item {
	items := make([]list.Item, 0, len(results))
	for _, r := range results {
		items = append(items, buildTUIResultItem(r))
	}
	return items
}

func buildTUIResultItem(r catalog.Scored) tuiResultItem {
	descParts := []string{display.FormatPrice(r.Price)}
	if r.Rating > 0 {
		descParts = append(descParts, fmt.Sprintf("★ %.1f", r.Rating))
	}
	if len(r.Genres) > 0 {
		descParts = append(descParts, strings.Join(r.Genres, ", "))
	}
	if r.HasScore {
		descParts = append(descParts, fmt.Sprintf("%s %.0f", r.Signal, r.MatchScore))
	}
	return tuiResultItem{
		result:      r,
		title:       display.ItemTitle(r.Item),
		description: strings.Join(descParts, "  •  "),
	}
}

func renderItemDetailContent(r catalog.Scored, ranges []catalog.PriceRange, width int) string {
	maxWidth := maxInt(24, width)

	lines := []string{
		tuiValueStyle.Render(wrapText(display.ItemTitle(r.Item), maxWidth)),
	}
	if r.HasScore {
		lines = append(lines, tuiSignalStyle.Render(fmt.Sprintf("match: %s (score %.0f)", r.Signal, r.MatchScore)))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Price:"), tuiValueStyle.Render(display.FormatPrice(r.Price))))
	if labels := priceRangeLabels(ranges, r.Price); len(labels) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Ranges:"), wrapText(strings.Join(labels, ", "), maxWidth)))
	}
	lines = append(lines, fmt.Sprintf("%s %.1f", tuiMetaStyle.Render("Rating:"), r.Rating))
	if !r.ReleaseDate.IsZero() {
		lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Released:"), r.ReleaseDate.Format("2006-01-02")))
	}
	lines = append(lines, fmt.Sprintf("%s %.0f", tuiMetaStyle.Render("Popularity:"), r.Popularity))
	lines = append(lines, "")

	if len(r.Genres) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Genres:"), wrapText(strings.Join(r.Genres, ", "), maxWidth)))
	}
	if len(r.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Tags:"), wrapText(strings.Join(r.Tags, ", "), maxWidth)))
	}
	if aka := append(append([]string{}, r.Aliases...), r.PhoneticAliases...); len(aka) > 0 {
		lines = append(lines, "")
		lines = append(lines, tuiMutedStyle.Render("Also known as:"))
		lines = append(lines, tuiMutedStyle.Render(wrapText(strings.Join(aka, ", "), maxWidth)))
	}

	return strings.Join(lines, "\n")
}

func priceRangeLabels(ranges []catalog.PriceRange, price float64) []string {
	var labels []string
	for _, r := range ranges {
		if r.Contains(price) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// buildFacetChoices orders facet keys by count with "" (any) first. Current
// selections missing from the counts are kept so cycling can leave them.
func buildFacetChoices(counts map[string]int, current []string) []string {
	buckets := catalog.Sorted(counts)
	values := make([]string, 0, len(buckets)+2)
	values = append(values, "")
	for _, b := range buckets {
		values = append(values, b.Key)
	}
	if len(current) == 1 && indexOfStringFold(values, current[0]) < 0 {
		values = append(values, current[0])
	}
	return values
}

// choiceIndex maps a filter selection onto a cycle list. Multi-value
// selections from flags have no single slot and report -1, so the next
// cycle step lands on "any".
func choiceIndex(choices, selected []string) int {
	switch len(selected) {
	case 0:
		return 0
	case 1:
		return indexOfStringFold(choices, selected[0])
	default:
		return -1
	}
}

func singleChoice(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func indexOfSortKey(values []catalog.SortKey, target catalog.SortKey) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func indexOfStringFold(values []string, target string) int {
	for i, value := range values {
		if strings.EqualFold(value, target) {
			return i
		}
	}
	return -1
}

func findItemIndexByID(items []list.Item, id string) int {
	for i, item := range items {
		if r, ok := item.(tuiResultItem); ok && r.result.ID == id {
			return i
		}
	}
	return -1
}

func emptyIf(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
