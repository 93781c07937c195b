package mydramalist

// SearchHit is a single search result card.
type SearchHit struct {
	Id        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Link      string   `json:"link"`
	Poster    string   `json:"poster,omitempty"`
	Year      string   `json:"year,omitempty"`
	Type      string   `json:"type,omitempty"`
	Countries []string `json:"countries"`
	Score     string   `json:"score,omitempty"`
	// Source names the selector strategy that produced the hit.
	Source string `json:"source"`
}

// Drama is the composite detail record of a title. Cast, Reviews and Recommendations
// stay empty unless they were explicitly requested.
type Drama struct {
	Id              string            `json:"id"`
	Title           string            `json:"title"`
	NativeTitle     string            `json:"nativeTitle"`
	Poster          string            `json:"poster"`
	Synopsis        string            `json:"synopsis"`
	Genres          []string          `json:"genres"`
	Tags            []string          `json:"tags"`
	Info            map[string]string `json:"info"`
	Cast            []CastGroup       `json:"cast"`
	Reviews         []Review          `json:"reviews"`
	Recommendations []Recommendation  `json:"recommendations"`
}

type Person struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CastGroup is every person listed under one header of the cast page ("Main Role",
// "Support Role", "Director", ...).
type CastGroup struct {
	Category string   `json:"category"`
	People   []Person `json:"people"`
}

type Recommendation struct {
	Id      string `json:"id"`
	Poster  string `json:"poster"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Rating struct {
	Stars    string `json:"stars"`
	Category string `json:"category"`
}

type Review struct {
	User          string   `json:"user"`
	Review        string   `json:"review"`
	Rating        []Rating `json:"rating"`
	NumberOfVotes string   `json:"numberofVotes"`
	WatchStatus   string   `json:"watchStatus"`
}
