package api

// CatalogResponse is the top-level response from the catalog endpoint.
type CatalogResponse struct {
	Items     []CatalogItem `json:"items"`
	UpdatedAt string        `json:"updatedAt"`
	Currency  string        `json:"currency"`
}

// CatalogItem is a storefront product as served by the upstream API. Every
// field other than ID may be missing.
type CatalogItem struct {
	ID              string   `json:"id"`
	Title           *string  `json:"title"`
	Price           *float64 `json:"price"`
	Genres          []string `json:"genres"`
	Tags            []string `json:"tags"`
	Aliases         []string `json:"aliases"`
	PhoneticAliases []string `json:"phoneticAliases"`
	Rating          *float64 `json:"rating"`
	ReleaseDate     *string  `json:"releaseDate"`
	Popularity      *float64 `json:"popularity"`
	ImageURL        *string  `json:"imageUrl"`
}
