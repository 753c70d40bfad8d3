// Package region defines the ordered table of page regions. The same table
// drives scroll activation and the navigation bar, so identifiers always match.
package region

// ID names one scrollable section of the page.
type ID string

const (
	Home       ID = "home"
	Experience ID = "experience"
	Projects   ID = "projects"
	Skills     ID = "skills"
	Blog       ID = "blog"
	Contact    ID = "contact"
)

// Descriptor is a static region definition.
type Descriptor struct {
	ID    ID
	Label string
}

// Href is the in-page anchor for the region.
func (d Descriptor) Href() string {
	return "#" + string(d.ID)
}

// Item is a navigation view model.
type Item struct {
	ID     ID     `json:"id"`
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// Table lists the regions in display order.
var Table = []Descriptor{
	{ID: Home, Label: "HOME"},
	{ID: Experience, Label: "EXPERIENCE"},
	{ID: Projects, Label: "PROJECTS"},
	{ID: Skills, Label: "SKILLS"},
	{ID: Blog, Label: "BLOG"},
	{ID: Contact, Label: "CONTACT"},
}

// Default is the region active before the first scroll sample.
const Default = Home

// Valid reports whether id is a known region.
func Valid(id ID) bool {
	_, ok := Lookup(id)
	return ok
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	for _, d := range Table {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Build renders the navigation items with the active flag set.
func Build(active ID) []Item {
	items := make([]Item, 0, len(Table))
	for _, d := range Table {
		items = append(items, Item{
			ID:     d.ID,
			Label:  d.Label,
			Href:   d.Href(),
			Active: d.ID == active,
		})
	}
	return items
}
