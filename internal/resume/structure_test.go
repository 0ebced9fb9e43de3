package resume

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestStructureBasicResume(t *testing.T) {
	text := "Jane Doe\njane@x.com\nEDUCATION\nBS CS\nEXPERIENCE\nIntern at Acme"

	r := Structure(text)

	if r.Name != "Jane Doe" {
		t.Fatalf("Name = %q, want Jane Doe", r.Name)
	}
	if r.Contact != "jane@x.com" {
		t.Fatalf("Contact = %q, want jane@x.com", r.Contact)
	}
	if !strings.Contains(r.Sections.Education, "BS CS") {
		t.Fatalf("Education = %q, want BS CS content", r.Sections.Education)
	}
	if !strings.Contains(r.Sections.Experience, "Intern at Acme") {
		t.Fatalf("Experience = %q, want Intern at Acme content", r.Sections.Experience)
	}
}

func TestStructureIsDeterministic(t *testing.T) {
	text := "John Smith\n555-123-4567\nEXPERIENCE\nBuilt things\nSKILLS\nGo, SQL"

	first := Structure(text)
	second := Structure(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Structure is not deterministic: %+v vs %+v", first, second)
	}
}

func TestStructureAlwaysSerializesFourSections(t *testing.T) {
	inputs := []string{
		"",
		"just one line",
		"random prose\nwith no headers\nat all",
		"EDUCATION\nBS",
	}
	for _, input := range inputs {
		r := Structure(input)
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		for _, key := range []string{`"education"`, `"experience"`, `"projects"`, `"skills"`} {
			if !strings.Contains(string(data), key) {
				t.Fatalf("serialized resume missing %s for input %q: %s", key, input, data)
			}
		}
	}
}

func TestStructureContactTokensInOrder(t *testing.T) {
	text := strings.Join([]string{
		"Jane Doe",
		"jane@x.com (555) 987-6543",
		"linkedin.com/in/janedoe",
		"github.com/janedoe",
	}, "\n")

	r := Structure(text)

	want := "jane@x.com, (555) 987-6543, linkedin.com/in/janedoe, github.com/janedoe"
	if r.Contact != want {
		t.Fatalf("Contact = %q, want %q", r.Contact, want)
	}
}

func TestStructureContactScanStopsAfterTenLines(t *testing.T) {
	lines := make([]string, 0, 12)
	lines = append(lines, "Jane Doe")
	for i := 0; i < 10; i++ {
		lines = append(lines, "filler line with no contact info")
	}
	lines = append(lines, "late@example.com")

	r := Structure(strings.Join(lines, "\n"))
	if r.Contact != "" {
		t.Fatalf("Contact = %q, want empty (email past line 10)", r.Contact)
	}
}

func TestStructureFirstMatchingListWins(t *testing.T) {
	// "Experience with education software" contains keywords from both the
	// Education and Experience lists; Education is checked first and wins.
	text := "Jane Doe\nExperience with education software\nbuilt classroom lessons"

	r := Structure(text)

	if !strings.Contains(r.Sections.Education, "built classroom lessons") {
		t.Fatalf("expected ambiguous header to land in Education, got education=%q experience=%q",
			r.Sections.Education, r.Sections.Experience)
	}
	if r.Sections.Experience != "" {
		t.Fatalf("expected empty experience, got %q", r.Sections.Experience)
	}
}

func TestStructureTriggeringLineIncluded(t *testing.T) {
	text := "Jane Doe\nSKILLS\nGo, SQL, Docker"

	r := Structure(text)

	if !strings.Contains(r.Sections.Skills, "SKILLS") {
		t.Fatalf("expected triggering header line in section, got %q", r.Sections.Skills)
	}
	if !strings.Contains(r.Sections.Skills, "Go, SQL, Docker") {
		t.Fatalf("expected content line in section, got %q", r.Sections.Skills)
	}
}

func TestStructureFallbackSweepsWholeText(t *testing.T) {
	// "technical" alone does not appear in any line-scan keyword list (only
	// the phrase "technical skills" does), so the line walk leaves every
	// section empty and the whole-text sweep runs. Its skills pattern does
	// match the bare word and captures from there to end of text.
	text := "Jane Doe\nA technical overview of my toolkit"

	r := Structure(text)

	if r.Sections.Skills == "" {
		t.Fatal("expected fallback sweep to capture skills prose")
	}
	if !strings.Contains(r.Sections.Skills, "technical overview of my toolkit") {
		t.Fatalf("unexpected fallback capture: %q", r.Sections.Skills)
	}
}

func TestStructureNoKeywordsIsNotAnError(t *testing.T) {
	text := "A Random Title\nsome text about nothing in particular\nmore filler"

	r := Structure(text)

	if r.Name != "A Random Title" {
		t.Fatalf("Name = %q", r.Name)
	}
	if r.Sections.Education != "" || r.Sections.Experience != "" ||
		r.Sections.Projects != "" || r.Sections.Skills != "" {
		t.Fatalf("expected all sections empty, got %+v", r.Sections)
	}
}

func TestStructureNormalizesWhitespace(t *testing.T) {
	text := "Jane Doe\nEDUCATION\nBS   CS\t\thonors"

	r := Structure(text)

	if strings.Contains(r.Sections.Education, "  ") {
		t.Fatalf("expected collapsed whitespace, got %q", r.Sections.Education)
	}
	if !strings.Contains(r.Sections.Education, "BS CS honors") {
		t.Fatalf("unexpected normalization result: %q", r.Sections.Education)
	}
}

func TestStructureForeignHeadersYieldEmptySections(t *testing.T) {
	// Headers in another language never match the fixed keyword lists.
	text := "Juana Pérez\nFORMACIÓN\nLicenciatura\nTRAYECTORIA\nBecaria en Acme"

	r := Structure(text)

	if r.Sections.Education != "" {
		t.Fatalf("expected empty education for foreign headers, got %q", r.Sections.Education)
	}
}

func TestStructureEmptyInput(t *testing.T) {
	r := Structure("   \n  \n")
	if r.Name != "" || r.Contact != "" {
		t.Fatalf("expected zero-value fields, got %+v", r)
	}
}
