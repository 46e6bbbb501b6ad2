// Package scenelist exports a project's scene table to a SQLite database
// so it can be filtered and annotated with spreadsheet-grade tooling.
package scenelist

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/plotloom/plotloom/core/model"
	"github.com/plotloom/plotloom/internal/sqlite"
)

const schema = `
CREATE TABLE project (
	title       TEXT,
	author      TEXT,
	description TEXT
);
CREATE TABLE chapters (
	id         TEXT PRIMARY KEY,
	title      TEXT,
	level      INTEGER NOT NULL,
	type       INTEGER NOT NULL,
	sort_order INTEGER NOT NULL
);
CREATE TABLE scenes (
	id           TEXT PRIMARY KEY,
	chapter_id   TEXT REFERENCES chapters(id),
	title        TEXT,
	description  TEXT,
	type         INTEGER NOT NULL,
	status       INTEGER,
	word_count   INTEGER NOT NULL,
	letter_count INTEGER NOT NULL,
	tags         TEXT,
	goal         TEXT,
	conflict     TEXT,
	outcome      TEXT,
	scene_date   TEXT,
	scene_time   TEXT,
	sort_order   INTEGER NOT NULL
);
CREATE TABLE characters (
	id         TEXT PRIMARY KEY,
	title      TEXT,
	full_name  TEXT,
	is_major   INTEGER NOT NULL,
	sort_order INTEGER NOT NULL
);
CREATE TABLE locations (
	id         TEXT PRIMARY KEY,
	title      TEXT,
	sort_order INTEGER NOT NULL
);
CREATE TABLE items (
	id         TEXT PRIMARY KEY,
	title      TEXT,
	sort_order INTEGER NOT NULL
);
CREATE TABLE scene_characters (
	scene_id     TEXT NOT NULL REFERENCES scenes(id),
	character_id TEXT NOT NULL REFERENCES characters(id)
);
`

// Export writes the novel to a fresh SQLite database at path. An existing
// file at the path is replaced.
func Export(path string, novel *model.Novel) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := insertAll(tx, novel); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertAll(tx *sql.Tx, novel *model.Novel) error {
	if _, err := tx.Exec(`INSERT INTO project (title, author, description) VALUES (?, ?, ?)`,
		text(novel.Title), text(novel.AuthorName), text(novel.Desc)); err != nil {
		return fmt.Errorf("failed to insert project row: %w", err)
	}

	for i, chID := range novel.SrtChapters {
		ch := novel.Chapters[chID]
		if _, err := tx.Exec(`INSERT INTO chapters (id, title, level, type, sort_order) VALUES (?, ?, ?, ?, ?)`,
			chID, text(ch.Title), int(ch.HeadingLevel()), int(ch.Classification()), i+1); err != nil {
			return fmt.Errorf("failed to insert chapter %s: %w", chID, err)
		}
	}

	order := 0
	for _, chID := range novel.SrtChapters {
		for _, scID := range novel.Chapters[chID].SrtScenes {
			sc := novel.Scenes[scID]
			order++
			if _, err := tx.Exec(`INSERT INTO scenes
				(id, chapter_id, title, description, type, status, word_count, letter_count,
				 tags, goal, conflict, outcome, scene_date, scene_time, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				scID, chID, text(sc.Title), text(sc.Desc), int(sc.Classification()), intOrNil(sc.Status),
				sc.WordCount, sc.LetterCount, strings.Join(sc.Tags, ";"),
				text(sc.Goal), text(sc.Conflict), text(sc.Outcome),
				text(sc.Date), text(sc.Time), order); err != nil {
				return fmt.Errorf("failed to insert scene %s: %w", scID, err)
			}
			for _, crID := range sc.Characters {
				if _, err := tx.Exec(`INSERT INTO scene_characters (scene_id, character_id) VALUES (?, ?)`,
					scID, crID); err != nil {
					return fmt.Errorf("failed to insert scene character link: %w", err)
				}
			}
		}
	}

	for i, crID := range novel.SrtCharacters {
		cr := novel.Characters[crID]
		major := 0
		if cr.IsMajor != nil && *cr.IsMajor {
			major = 1
		}
		if _, err := tx.Exec(`INSERT INTO characters (id, title, full_name, is_major, sort_order) VALUES (?, ?, ?, ?, ?)`,
			crID, text(cr.Title), text(cr.FullName), major, i+1); err != nil {
			return fmt.Errorf("failed to insert character %s: %w", crID, err)
		}
	}
	for i, lcID := range novel.SrtLocations {
		if _, err := tx.Exec(`INSERT INTO locations (id, title, sort_order) VALUES (?, ?, ?)`,
			lcID, text(novel.Locations[lcID].Title), i+1); err != nil {
			return fmt.Errorf("failed to insert location %s: %w", lcID, err)
		}
	}
	for i, itID := range novel.SrtItems {
		if _, err := tx.Exec(`INSERT INTO items (id, title, sort_order) VALUES (?, ?, ?)`,
			itID, text(novel.Items[itID].Title), i+1); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", itID, err)
		}
	}
	return nil
}

func text(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
