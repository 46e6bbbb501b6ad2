package archive

import (
	"archive/tar"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// ReadManifest extracts and decodes the manifest of a snapshot.
func ReadManifest(path string) (*Manifest, error) {
	data, err := ReadFile(path, manifestName)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Verify checks every archived file against the digests recorded in the
// snapshot's manifest. It reports the first mismatch or missing file.
func Verify(path string) error {
	m, err := ReadManifest(path)
	if err != nil {
		return err
	}
	want := map[string]ManifestFile{}
	for _, f := range m.Files {
		want[f.Name] = f
	}

	seen := map[string]bool{}
	err = IterateSnapshot(path, func(header *tar.Header, r io.Reader) (bool, error) {
		entry, listed := want[header.Name]
		if !listed {
			return false, nil
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return false, err
		}
		sum := blake3.Sum256(data)
		if got := hex.EncodeToString(sum[:]); got != entry.BLAKE3 {
			return false, fmt.Errorf("digest mismatch for %s: got %s, want %s", header.Name, got, entry.BLAKE3)
		}
		seen[header.Name] = true
		return false, nil
	})
	if err != nil {
		return err
	}
	for name := range want {
		if !seen[name] {
			return fmt.Errorf("file listed in manifest but missing from archive: %s", name)
		}
	}
	return nil
}
