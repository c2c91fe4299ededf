// Package testdata embeds recorded landmark sessions for tests.
package testdata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed recordings/*.jsonl
var recordingsFS embed.FS

// RevealDrag is a recording at 800x600 in which an open palm reveals "Hi",
// a pinch drags the text from the center to (480, 360), the pinch is
// released and a fist hides the text.
const RevealDrag = "reveal_drag.jsonl"

// OpenRecording opens an embedded recording by name.
func OpenRecording(name string) (fs.File, error) {
	f, err := recordingsFS.Open(path.Join("recordings", name))
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", name, err)
	}
	return f, nil
}

// Recordings lists the embedded recording names.
func Recordings() ([]string, error) {
	entries, err := recordingsFS.ReadDir("recordings")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
