package domain

// MovieRef identifies a movie in the catalog. Identity is the ID; the title is
// display-only and may differ in casing or region from what a user typed.
type MovieRef struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// ActorRef identifies a cast member.
type ActorRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Valid reports whether the reference carries both an ID and a title.
func (m MovieRef) Valid() bool {
	return m.ID != "" && m.Title != ""
}

// Valid reports whether the reference carries both an ID and a name.
func (a ActorRef) Valid() bool {
	return a.ID != "" && a.Name != ""
}

// CatalogMovie is a movie together with its recorded cast, the unit the
// catalog tooling reads, writes and ingests.
type CatalogMovie struct {
	ID    string     `json:"id" yaml:"id"`
	Title string     `json:"title" yaml:"title"`
	Cast  []ActorRef `json:"cast" yaml:"cast"`
}

// Ref returns the movie reference without its cast.
func (m CatalogMovie) Ref() MovieRef {
	return MovieRef{ID: m.ID, Title: m.Title}
}
