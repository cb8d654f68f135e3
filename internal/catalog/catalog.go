// Package catalog defines the wallpaper category taxonomies offered to users.
// Narrow-group users pick from a flat list of categories; wide-group users
// first pick a main category and then one of its subcategories.
package catalog

import "strings"

// KeySeparator joins a main category and a subcategory into a composite
// category key, e.g. "Nature:Mountains".
const KeySeparator = ":"

// MainCategory is a two-level category with an ordered list of subcategories.
// Slices (not maps) keep the declared order so prefetch traversal is
// deterministic and repeatable.
type MainCategory struct {
	Name          string
	Subcategories []string
}

// Narrow is the flat category list shown to narrow-group users. The category
// name is used directly as the category key and as the provider search query.
var Narrow = []string{
	"Nature",
	"Abstract",
	"Animals",
	"Space",
	"Cities",
	"Fantasy",
	"Technology",
}

// Wide is the two-level taxonomy shown to wide-group users.
var Wide = []MainCategory{
	{Name: "Nature", Subcategories: []string{"Mountains", "Forests", "Beaches", "Sunsets", "Rivers", "Waterfalls", "Deserts", "Caves"}},
	{Name: "Space", Subcategories: []string{"Galaxies", "Planets", "Nebulae", "Stars", "Black Holes"}},
	{Name: "Animals", Subcategories: []string{"Wildlife animals", "Pets", "Birds", "Reptiles", "Cats", "Dogs"}},
	{Name: "Abstract", Subcategories: []string{"Fractals", "Geometric", "Minimalist", "3D", "Textures", "Surreal"}},
	{Name: "Cities", Subcategories: []string{"Skylines", "Bridges", "Streets", "Landmarks", "Nightscapes", "Futuristic Cities"}},
	{Name: "Fantasy", Subcategories: []string{"Dragons", "Magical Landscapes", "Fairy Tales", "Fantasy Art"}},
	{Name: "Technology", Subcategories: []string{"Cyberpunk", "Futuristic", "AI & Robotics", "Gadgets"}},
	{Name: "Cars & Vehicles", Subcategories: []string{"Sports Cars", "Motorcycles", "Classic Cars", "Airplanes", "Trains", "Boats"}},
	{Name: "Seasons", Subcategories: []string{"Spring", "Summer", "Autumn", "Winter"}},
	{Name: "Dark & Gothic", Subcategories: []string{"Dark Aesthetic", "Horror", "Gothic Art", "Skulls", "Vampires"}},
}

// CompositeKey builds the category key for a wide main/subcategory pair.
func CompositeKey(main, sub string) string {
	return main + KeySeparator + sub
}

// Query returns the provider search query for a category key. For composite
// keys only the subcategory part is queried; the main category is a UI
// grouping, not part of the provider vocabulary.
func Query(categoryKey string) string {
	if _, sub, ok := strings.Cut(categoryKey, KeySeparator); ok {
		return sub
	}
	return categoryKey
}

// Subcategories returns the subcategory list for a wide main category, or nil
// if the name is unknown.
func Subcategories(main string) []string {
	for _, c := range Wide {
		if c.Name == main {
			return c.Subcategories
		}
	}
	return nil
}

// Entry is one step of the prefetch traversal: the key images are stored
// under and the query sent to the provider.
type Entry struct {
	Key   string
	Query string
}

// Entries returns the full prefetch traversal in its canonical order: all
// narrow categories first, then every wide subcategory in declared order.
func Entries() []Entry {
	entries := make([]Entry, 0, len(Narrow))
	for _, cat := range Narrow {
		entries = append(entries, Entry{Key: cat, Query: cat})
	}
	for _, main := range Wide {
		for _, sub := range main.Subcategories {
			entries = append(entries, Entry{Key: CompositeKey(main.Name, sub), Query: sub})
		}
	}
	return entries
}
