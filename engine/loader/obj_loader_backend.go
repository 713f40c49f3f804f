package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// objLoaderBackend decodes Wavefront OBJ geometry. Only "v" and "f" statements matter;
// texture coordinates, normals, groups and materials are skipped. Polygons with more than
// three corners are fan-triangulated around their first corner.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend() *objLoaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Load(path string) (*importedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.decode(f)
}

func (b *objLoaderBackend) LoadReader(r io.Reader, format Format) (*importedMesh, error) {
	if format != FormatOBJ {
		return nil, fmt.Errorf("%w: OBJ backend cannot decode %v", ErrUnsupportedFormat, format)
	}
	return b.decode(r)
}

func (b *objLoaderBackend) decode(r io.Reader) (*importedMesh, error) {
	mesh := &importedMesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var p [3]float32
			for c := 0; c < 3; c++ {
				v, err := strconv.ParseFloat(fields[c+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad coordinate %q: %w", lineNo, fields[c+1], err)
				}
				p[c] = float32(v)
			}
			mesh.positions = append(mesh.positions, p)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			corners := make([]int, len(fields)-1)
			for i, token := range fields[1:] {
				idx, err := objVertexIndex(token, len(mesh.positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners[i] = idx
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.faces = append(mesh.faces, [3]int{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// objVertexIndex resolves the position part of a face corner ("7", "7/2", "7//3", "7/2/3")
// to a zero-based index. Negative indices count back from the latest position.
func objVertexIndex(token string, count int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", token)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("face index 0 is invalid")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("face index %d out of range (%d vertices)", n, count)
	}
	return idx, nil
}
