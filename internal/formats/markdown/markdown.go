// Package markdown reads and writes the proof-editing interchange format:
// a Markdown file carrying the full scene text between visible ID markers,
// so an externally edited copy can be folded back into the project without
// guessing which scene a paragraph belongs to.
package markdown

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/plotloom/plotloom/core/model"
)

// Extension is the interchange file suffix.
const Extension = ".md"

var (
	sceneOpen  = regexp.MustCompile(`^\[ScID:(\d+)\]\s*$`)
	sceneClose = regexp.MustCompile(`^\[/ScID\]\s*$`)
	chapOpen   = regexp.MustCompile(`^\[ChID:(\d+)\]\s*$`)
	chapClose  = regexp.MustCompile(`^\[/ChID\]\s*$`)
)

// Write renders the novel's normal chapters and scenes to path. Notes,
// todo and unused parts stay out of the interchange copy; they are not
// meant for external editing.
func Write(path string, novel *model.Novel) error {
	var b strings.Builder
	for _, chID := range novel.SrtChapters {
		ch := novel.Chapters[chID]
		if ch.Classification() != model.ClassNormal {
			continue
		}
		fmt.Fprintf(&b, "[ChID:%s]\n", chID)
		// Heading depth mirrors the splitter's marker convention: one
		// hash for a part, two for a chapter.
		if ch.Title != nil && *ch.Title != "" {
			heading := "## "
			if ch.HeadingLevel() == model.LevelPart {
				heading = "# "
			}
			b.WriteString(heading + *ch.Title + "\n")
		}
		for _, scID := range ch.SrtScenes {
			sc := novel.Scenes[scID]
			if sc.Classification() != model.ClassNormal {
				continue
			}
			fmt.Fprintf(&b, "[ScID:%s]\n", scID)
			// The newline is a marker delimiter, not content: Parse joins
			// the lines before the close marker, so a content-final
			// newline needs its own empty line to survive the round trip.
			if sc.Content != nil {
				b.WriteString(*sc.Content)
			}
			b.WriteString("\n")
			b.WriteString("[/ScID]\n")
		}
		b.WriteString("[/ChID]\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Read parses an interchange file back into a partial model: chapters with
// their scene order and scenes carrying content only. The result is meant
// to be merged into the authoritative project, never written on its own.
func Read(path string) (*model.Novel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse is Read without the file access.
func Parse(text string) (*model.Novel, error) {
	novel := model.NewNovel()
	var (
		chapterID string
		sceneID   string
		buffer    []string
	)
	for _, line := range strings.Split(text, "\n") {
		switch {
		case sceneOpen.MatchString(line):
			if sceneID != "" {
				return nil, fmt.Errorf("unclosed scene %s", sceneID)
			}
			sceneID = sceneOpen.FindStringSubmatch(line)[1]
			buffer = nil
		case sceneClose.MatchString(line):
			if sceneID == "" {
				return nil, fmt.Errorf("scene close marker without open")
			}
			sc := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
			sc.SetContent(strings.Join(buffer, "\n"))
			novel.Scenes[sceneID] = sc
			if chapterID != "" {
				ch := novel.Chapters[chapterID]
				ch.SrtScenes = append(ch.SrtScenes, sceneID)
			}
			sceneID = ""
		case sceneID != "":
			buffer = append(buffer, line)
		case chapOpen.MatchString(line):
			if chapterID != "" {
				return nil, fmt.Errorf("unclosed chapter %s", chapterID)
			}
			chapterID = chapOpen.FindStringSubmatch(line)[1]
			if novel.Chapters[chapterID] == nil {
				novel.Chapters[chapterID] = &model.Chapter{
					BasicElement: model.BasicElement{KwVar: map[string]string{}},
				}
				novel.SrtChapters = append(novel.SrtChapters, chapterID)
			}
		case chapClose.MatchString(line):
			if chapterID == "" {
				return nil, fmt.Errorf("chapter close marker without open")
			}
			chapterID = ""
		}
	}
	if sceneID != "" {
		return nil, fmt.Errorf("unclosed scene %s", sceneID)
	}
	if chapterID != "" {
		return nil, fmt.Errorf("unclosed chapter %s", chapterID)
	}
	return novel, nil
}
