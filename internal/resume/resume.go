package resume

// Sections holds the four fixed resume sections. A missing section is an
// empty string, never an omitted key.
type Sections struct {
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Projects   string `json:"projects"`
	Skills     string `json:"skills"`
}

// Resume is the normalized representation built from raw extracted text.
// It is immutable after Structure returns it, except that the caller may
// attach a job description before dispatching it to analysis providers.
type Resume struct {
	Name           string   `json:"name"`
	Contact        string   `json:"contact"`
	Sections       Sections `json:"sections"`
	JobDescription string   `json:"jobDescription,omitempty"`
}
