package resume

import (
	"regexp"
	"strings"
)

const contactScanLines = 10

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9-]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9-]+`)

	whitespaceRunRe = regexp.MustCompile(`\s+`)
	blankLineRunRe  = regexp.MustCompile(`\n\s*\n`)
)

// sectionKeywords maps each section to the terms that mark its heading.
// Matching is substring containment on the lowercased line, and the order
// below is the tie-break: the first list containing a match wins.
var sectionKeywords = []struct {
	name     string
	keywords []string
}{
	{"Education", []string{"education", "academic", "university", "college", "degree", "bachelor", "master", "phd", "gpa", "graduated"}},
	{"Experience", []string{"experience", "employment", "work history", "professional", "career", "job", "position", "role"}},
	{"Projects", []string{"projects", "portfolio", "personal projects", "side projects", "github", "repository"}},
	{"Skills", []string{"skills", "technical skills", "technologies", "programming", "languages", "tools", "software", "expertise"}},
}

// Structure turns extracted plain text into a normalized Resume. It never
// fails: inputs without recognizable structure yield a Resume with empty
// sections, which downstream scoring treats as a low-quality document rather
// than an error.
func Structure(text string) Resume {
	lines := splitLines(text)

	var r Resume
	if len(lines) > 0 {
		r.Name = lines[0]
	}
	r.Contact = scanContact(lines)

	content := map[string][]string{}
	current := ""
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, group := range sectionKeywords {
			if containsAny(lower, group.keywords) {
				current = group.name
				break
			}
		}
		if current != "" {
			content[current] = append(content[current], line)
		}
	}

	r.Sections.Education = strings.TrimSpace(strings.Join(content["Education"], "\n"))
	r.Sections.Experience = strings.TrimSpace(strings.Join(content["Experience"], "\n"))
	r.Sections.Projects = strings.TrimSpace(strings.Join(content["Projects"], "\n"))
	r.Sections.Skills = strings.TrimSpace(strings.Join(content["Skills"], "\n"))

	if r.Sections.Education == "" && r.Sections.Experience == "" {
		applyFallback(&r, text)
	}

	return normalize(r)
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// scanContact collects contact tokens from the first lines of the document.
// A single line may contribute several tokens (email and phone, for example).
func scanContact(lines []string) string {
	limit := len(lines)
	if limit > contactScanLines {
		limit = contactScanLines
	}

	var tokens []string
	for _, line := range lines[:limit] {
		if m := emailRe.FindString(line); m != "" {
			tokens = append(tokens, m)
		}
		if m := phoneRe.FindString(line); m != "" {
			tokens = append(tokens, m)
		}
		if m := linkedinRe.FindString(line); m != "" {
			tokens = append(tokens, m)
		}
		if m := githubRe.FindString(line); m != "" {
			tokens = append(tokens, m)
		}
	}
	return strings.Join(tokens, ", ")
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	fallbackEducationStart  = regexp.MustCompile(`education|academic|university|college|degree`)
	fallbackEducationStop   = regexp.MustCompile(`experience|skills|projects`)
	fallbackExperienceStart = regexp.MustCompile(`experience|employment|work history|professional`)
	fallbackExperienceStop  = regexp.MustCompile(`education|skills|projects`)
	fallbackSkillsStart     = regexp.MustCompile(`skills|technical|technologies|programming`)
	fallbackSkillsStop      = regexp.MustCompile(`education|experience|projects`)
	fallbackProjectsStart   = regexp.MustCompile(`projects|portfolio|github`)
	fallbackProjectsStop    = regexp.MustCompile(`education|experience|skills`)
)

// applyFallback re-scans the whole lowercased text when no Education or
// Experience header was found line-by-line. Each sweep captures from its
// first keyword up to the next recognized section keyword or end of text.
// Best-effort and lossy: documents without headers may yield unrelated prose.
func applyFallback(r *Resume, text string) {
	lower := strings.ToLower(text)

	if r.Sections.Education == "" {
		r.Sections.Education = fallbackCapture(lower, fallbackEducationStart, fallbackEducationStop)
	}
	if r.Sections.Experience == "" {
		r.Sections.Experience = fallbackCapture(lower, fallbackExperienceStart, fallbackExperienceStop)
	}
	if r.Sections.Skills == "" {
		r.Sections.Skills = fallbackCapture(lower, fallbackSkillsStart, fallbackSkillsStop)
	}
	if r.Sections.Projects == "" {
		r.Sections.Projects = fallbackCapture(lower, fallbackProjectsStart, fallbackProjectsStop)
	}
}

// fallbackCapture emulates a lazy match with a stop-keyword lookahead, which
// RE2 does not support directly: capture from the first start-keyword match
// until the earliest stop-keyword occurrence after it.
func fallbackCapture(lower string, start, stop *regexp.Regexp) string {
	loc := start.FindStringIndex(lower)
	if loc == nil {
		return ""
	}
	rest := lower[loc[1]:]
	stopLoc := stop.FindStringIndex(rest)
	if stopLoc == nil {
		return lower[loc[0]:]
	}
	return lower[loc[0] : loc[1]+stopLoc[0]]
}

// normalize collapses whitespace runs and trims every field.
func normalize(r Resume) Resume {
	r.Sections.Education = normalizeSection(r.Sections.Education)
	r.Sections.Experience = normalizeSection(r.Sections.Experience)
	r.Sections.Projects = normalizeSection(r.Sections.Projects)
	r.Sections.Skills = normalizeSection(r.Sections.Skills)
	r.Name = strings.TrimSpace(r.Name)
	r.Contact = strings.TrimSpace(r.Contact)
	return r
}

func normalizeSection(s string) string {
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = blankLineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
