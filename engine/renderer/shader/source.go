package shader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

// Source is the text of one shader stage as read from disk. It is immutable after load.
type Source struct {
	// Stage is the pipeline stage the text is written for.
	Stage gpu.StageType

	// Path is the file the text was read from. Empty for in-memory sources.
	Path string

	// Text is the complete source.
	Text string
}

// LoadSource reads an entire shader file into memory.
//
// Parameters:
//   - path: the file to read
//   - stage: the stage the file is written for
//
// Returns:
//   - Source: the loaded source
//   - error: ErrSourceUnreadable wrapped with the OS error if the file cannot be read
func LoadSource(path string, stage gpu.StageType) (Source, error) {
	if stage != gpu.StageVertex && stage != gpu.StageFragment {
		return Source{}, fmt.Errorf("%w: %q: unknown stage %v", ErrSourceUnreadable, path, stage)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	return Source{Stage: stage, Path: path, Text: string(data)}, nil
}
