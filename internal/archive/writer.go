package archive

import (
	"archive/tar"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Manifest is the manifest.json placed first inside every snapshot.
type Manifest struct {
	Version   string         `json:"version"`
	Title     string         `json:"title,omitempty"`
	CreatedAt string         `json:"created_at"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile records one archived file with its content digest.
type ManifestFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	BLAKE3    string `json:"blake3"`
}

const manifestName = "manifest.json"

// CreateSnapshot writes a tar.xz snapshot at dstPath containing the given
// files, keyed by their archive name, plus a manifest with a BLAKE3 digest
// per file. Parent directories of dstPath are created as needed.
func CreateSnapshot(dstPath, title string, files map[string][]byte) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	manifest := Manifest{
		Version:   "1",
		Title:     title,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	names := sortedKeys(files)
	for _, name := range names {
		sum := blake3.Sum256(files[name])
		manifest.Files = append(manifest.Files, ManifestFile{
			Name:      name,
			SizeBytes: int64(len(files[name])),
			BLAKE3:    hex.EncodeToString(sum[:]),
		})
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	outFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	xzw, err := xz.NewWriter(outFile)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xzw)

	now := time.Now()
	writeEntry := func(name string, data []byte) error {
		header := &tar.Header{
			Name:    name,
			Mode:    0644,
			Size:    int64(len(data)),
			ModTime: now,
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	}

	if err := writeEntry(manifestName, manifestData); err != nil {
		return err
	}
	for _, name := range names {
		if err := writeEntry(name, files[name]); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish compression: %w", err)
	}
	return nil
}

// SnapshotFiles collects a project file and any sidecars that exist into
// the name-to-content map CreateSnapshot expects.
func SnapshotFiles(projectPath string, sidecars ...string) (map[string][]byte, error) {
	files := map[string][]byte{}
	data, err := os.ReadFile(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	files[filepath.Base(projectPath)] = data
	for _, path := range sidecars {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files[filepath.Base(path)] = data
	}
	return files, nil
}

func sortedKeys(m map[string][]byte) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
