package llm

import (
	_ "embed"
	"encoding/json"
	"strings"

	"resume-analyzer/internal/resume"
)

//go:embed prompts/score.txt
var scorePromptTemplate string

//go:embed prompts/narrative.txt
var narrativePromptTemplate string

const documentPlaceholder = "{{DOCUMENT_JSON}}"

// ScorePrompt renders the scoring prompt with the resume embedded as
// indented JSON.
func ScorePrompt(r resume.Resume) string {
	return renderPrompt(scorePromptTemplate, r)
}

// NarrativePrompt renders the improvement/rewrite prompt with the resume
// embedded as indented JSON.
func NarrativePrompt(r resume.Resume) string {
	return renderPrompt(narrativePromptTemplate, r)
}

func renderPrompt(template string, r resume.Resume) string {
	doc, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		// Resume is a plain struct of strings; marshalling cannot fail.
		doc = []byte("{}")
	}
	return strings.Replace(template, documentPlaceholder, string(doc), 1)
}
