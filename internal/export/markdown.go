// Package export renders an authored paper as a single Markdown file.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ayush/paper-studio/internal/annotation"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
)

// Markdown renders doc in registry order. Blank sections, sections made
// only of annotation spans, and sections that are blank once annotations
// are stripped are left out. The title
// becomes the top-level heading; abstract and keywords are never numbered;
// other numbered sections get a running number that only advances for
// sections actually emitted.
func Markdown(doc *models.Document, reg *sections.Registry) string {
	var parts []string
	counter := 1

	for _, def := range reg.All() {
		content := strings.TrimSpace(doc.Content(def.Key))
		if content == "" || annotation.Only(content) {
			continue
		}
		cleaned := strings.TrimSpace(annotation.Strip(content))
		if cleaned == "" {
			continue
		}

		switch {
		case def.Key == "title":
			parts = append(parts, "# "+cleaned)
		case def.Numbered && def.Key != "abstract" && def.Key != "keywords":
			parts = append(parts, fmt.Sprintf("## %d. %s\n\n%s", counter, def.Name, cleaned))
			counter++
		default:
			parts = append(parts, fmt.Sprintf("## %s\n\n%s", def.Name, cleaned))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

var unsafeFilenameChars = regexp.MustCompile(`[/\\?%*:|"<>]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives a download name from the paper's title, falling back
// to its display name.
func Filename(doc *models.Document) string {
	name := strings.TrimSpace(annotation.Strip(doc.Content("title")))
	if name == "" {
		name = doc.DocumentName
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "-")
	name = strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
	if name == "" {
		name = "Untitled Paper"
	}
	return name + ".md"
}
