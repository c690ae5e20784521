package catalog_test

import (
	"time"

	"github.com/tayloree/storefront-catalog/internal/catalog"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleCatalog() []catalog.Item {
	return []catalog.Item{
		{
			ID: "1", Title: "Dark Souls", Price: 40,
			Genres: []string{"RPG", "Action"}, Tags: []string{"souls-like", "dark fantasy"},
			Rating: 4.8, ReleaseDate: day("2011-09-22"), Popularity: 90,
		},
		{
			ID: "2", Title: "Darkest Dungeon", Price: 25,
			Genres: []string{"rpg", "Strategy"}, Tags: []string{"roguelike", "dark fantasy"},
			Rating: 4.5, ReleaseDate: day("2016-01-19"), Popularity: 70,
		},
		{
			ID: "3", Title: "Stardew Valley", Price: 15,
			Genres: []string{"Simulation"}, Tags: []string{"farming", "co-op"},
			Aliases: []string{"SDV"}, Rating: 4.9, ReleaseDate: day("2016-02-26"), Popularity: 95,
		},
		{
			ID: "4", Title: "Doom Eternal", Price: 120,
			Genres: []string{"FPS", "Action"}, Tags: []string{"shooter", "fast"},
			Rating: 4.4, ReleaseDate: day("2020-03-20"), Popularity: 80,
		},
		{
			ID: "5", Title: "Elden Ring", Price: 250,
			Genres: []string{"RPG", "Action"}, Tags: []string{"souls-like", "open world", "co-op"},
			PhoneticAliases: []string{"eldin ring"}, Rating: 4.9, ReleaseDate: day("2022-02-25"), Popularity: 99,
		},
	}
}

func ids(items []catalog.Scored) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
