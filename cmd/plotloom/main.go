// Command plotloom maintains novel project files: inspection, snapshots,
// interchange exports, and folding externally edited copies back in.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/plotloom/plotloom/core/merge"
	"github.com/plotloom/plotloom/core/model"
	"github.com/plotloom/plotloom/core/yw7"
	"github.com/plotloom/plotloom/internal/archive"
	"github.com/plotloom/plotloom/internal/config"
	"github.com/plotloom/plotloom/internal/formats/markdown"
	"github.com/plotloom/plotloom/internal/formats/scenelist"
	"github.com/plotloom/plotloom/internal/logging"
	"github.com/plotloom/plotloom/internal/sqlite"
)

const version = "0.1.0"

// openProject reads a project file and logs the load; the core packages do
// not log on their own.
func openProject(path string) (*yw7.File, error) {
	f := yw7.NewFile(path)
	if err := f.Read(); err != nil {
		return nil, err
	}
	logging.ProjectRead(path, len(f.Novel.Chapters), len(f.Novel.Scenes))
	return f, nil
}

// CLI defines the command-line interface for plotloom.
var CLI struct {
	Project ProjectGroup `cmd:"" help:"Project operations (info, snapshot, verify)"`
	Export  ExportGroup  `cmd:"" help:"Export a project to interchange formats"`
	Import  ImportGroup  `cmd:"" help:"Fold an edited interchange copy back into a project"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// ProjectGroup contains project lifecycle operations.
type ProjectGroup struct {
	Info     InfoCmd     `cmd:"" help:"Show a project summary"`
	Snapshot SnapshotCmd `cmd:"" help:"Archive the project into a verifiable snapshot"`
	Verify   VerifyCmd   `cmd:"" help:"Verify a snapshot against its manifest"`
}

// ExportGroup contains export operations.
type ExportGroup struct {
	Markdown  ExportMarkdownCmd  `cmd:"" help:"Export scene text to a Markdown proof copy"`
	Scenelist ExportScenelistCmd `cmd:"" help:"Export the scene table to a SQLite database"`
}

// ImportGroup contains import operations.
type ImportGroup struct {
	Markdown ImportMarkdownCmd `cmd:"" help:"Merge an edited Markdown proof copy back in"`
}

// InfoCmd shows a project summary.
type InfoCmd struct {
	Path string `arg:"" help:"Path to project file" type:"existingfile"`
}

func (c *InfoCmd) Run() error {
	f, err := openProject(c.Path)
	if err != nil {
		return err
	}
	n := f.Novel
	title := "(untitled)"
	if n.Title != nil && *n.Title != "" {
		title = *n.Title
	}
	words := 0
	normal := 0
	for _, sc := range n.Scenes {
		if sc.Classification() == model.ClassNormal {
			words += sc.WordCount
			normal++
		}
	}
	fmt.Printf("Title:      %s\n", title)
	if n.AuthorName != nil && *n.AuthorName != "" {
		fmt.Printf("Author:     %s\n", *n.AuthorName)
	}
	fmt.Printf("Chapters:   %d\n", len(n.SrtChapters))
	fmt.Printf("Scenes:     %d (%d normal)\n", len(n.Scenes), normal)
	fmt.Printf("Words:      %d\n", words)
	fmt.Printf("Characters: %d\n", len(n.SrtCharacters))
	fmt.Printf("Locations:  %d\n", len(n.SrtLocations))
	fmt.Printf("Items:      %d\n", len(n.SrtItems))
	fmt.Printf("Fingerprint: %s\n", f.SourceHash)
	return nil
}

// SnapshotCmd archives a project file and its backup sidecar.
type SnapshotCmd struct {
	Path   string         `arg:"" help:"Path to project file" type:"existingfile"`
	Output string         `short:"o" help:"Snapshot path (default: <project>.<timestamp>.tar.xz)" type:"path"`
	Config *config.Config `kong:"-"`
}

func (c *SnapshotCmd) Run() error {
	f, err := openProject(c.Path)
	if err != nil {
		return err
	}
	title := ""
	if f.Novel.Title != nil {
		title = *f.Novel.Title
	}

	dst := c.Output
	if dst == "" {
		stamp := time.Now().Format("20060102-150405")
		name := fmt.Sprintf("%s.%s.tar.xz", filepath.Base(c.Path), stamp)
		dir := filepath.Dir(c.Path)
		if c.Config != nil && c.Config.SnapshotDir != "" {
			dir = c.Config.SnapshotDir
		}
		dst = filepath.Join(dir, name)
	}

	files, err := archive.SnapshotFiles(c.Path, c.Path+".bak")
	if err != nil {
		return err
	}
	if err := archive.CreateSnapshot(dst, title, files); err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s\n", dst)
	return nil
}

// VerifyCmd verifies a snapshot's digests.
type VerifyCmd struct {
	Archive string `arg:"" help:"Path to snapshot archive" type:"existingfile"`
}

func (c *VerifyCmd) Run() error {
	if err := archive.Verify(c.Archive); err != nil {
		return err
	}
	fmt.Printf("OK: %s\n", c.Archive)
	return nil
}

// ExportMarkdownCmd writes a Markdown proof copy.
type ExportMarkdownCmd struct {
	Path   string `arg:"" help:"Path to project file" type:"existingfile"`
	Output string `short:"o" help:"Output path (default: project name with .md)" type:"path"`
}

func (c *ExportMarkdownCmd) Run() error {
	f, err := openProject(c.Path)
	if err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = strings.TrimSuffix(c.Path, yw7.Extension) + markdown.Extension
	}
	if err := markdown.Write(out, f.Novel); err != nil {
		return err
	}
	fmt.Printf("Proof copy written to %s\n", out)
	return nil
}

// ExportScenelistCmd writes the scene table to SQLite.
type ExportScenelistCmd struct {
	Path   string `arg:"" help:"Path to project file" type:"existingfile"`
	Output string `short:"o" help:"Output path (default: project name with .db)" type:"path"`
}

func (c *ExportScenelistCmd) Run() error {
	f, err := openProject(c.Path)
	if err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = strings.TrimSuffix(c.Path, yw7.Extension) + ".db"
	}
	if err := scenelist.Export(out, f.Novel); err != nil {
		return err
	}
	fmt.Printf("Scene list written to %s (driver: %s)\n", out, sqlite.DriverType())
	return nil
}

// ImportMarkdownCmd merges an edited proof copy back into the project.
type ImportMarkdownCmd struct {
	Project  string `arg:"" help:"Path to project file" type:"existingfile"`
	Document string `arg:"" help:"Path to edited Markdown copy" type:"existingfile"`
}

func (c *ImportMarkdownCmd) Run() error {
	target, err := openProject(c.Project)
	if err != nil {
		return err
	}
	source, err := markdown.Read(c.Document)
	if err != nil {
		return err
	}
	scenesBefore := len(target.Novel.Scenes)
	didSplit := merge.Merge(target.Novel, source)
	logging.MergeEvent(c.Project, len(target.Novel.Scenes), len(target.Novel.Chapters), didSplit)
	if didSplit {
		logging.SplitEvent(scenesBefore, len(target.Novel.Scenes), len(target.Novel.Chapters))
	}
	if err := target.Write(); err != nil {
		return err
	}
	if st, err := os.Stat(c.Project); err == nil {
		logging.ProjectWritten(c.Project, int(st.Size()))
	}
	if didSplit {
		fmt.Println("Merged; structural markers created new chapters or scenes.")
	} else {
		fmt.Println("Merged.")
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("plotloom version %s\n", version)
	return nil
}

func initLogging(cfg *config.Config) {
	level := logging.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	format := logging.FormatText
	if cfg.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)
	logging.Debug("logger configured", "level", cfg.LogLevel, "format", cfg.LogFormat)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("plotloom"),
		kong.Description("Novel project maintenance and interchange"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	cfg, err := config.Load()
	ctx.FatalIfErrorf(err)
	initLogging(cfg)
	CLI.Project.Snapshot.Config = cfg
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
