package loader

import (
	"fmt"
	"io"
	"log"
)

// gltfLoaderBackend decodes the triangle primitives of every mesh in a glTF 2.0 or GLB
// asset. Only the POSITION attribute is read. Node transforms are not applied, so a mesh
// appears once in its own model space regardless of how many nodes instance it.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() *gltfLoaderBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Load(path string) (*importedMesh, error) {
	p := newGLTFParser()
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return b.extract(p)
}

func (b *gltfLoaderBackend) LoadReader(r io.Reader, format Format) (*importedMesh, error) {
	if format != FormatGLTF && format != FormatGLB {
		return nil, fmt.Errorf("%w: glTF backend cannot decode %v", ErrUnsupportedFormat, format)
	}
	p := newGLTFParser()
	if err := p.parseReader(r, format == FormatGLB); err != nil {
		return nil, err
	}
	return b.extract(p)
}

func (b *gltfLoaderBackend) extract(p *gltfParser) (*importedMesh, error) {
	mesh := &importedMesh{}
	for mi, m := range p.document.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				log.Printf("[Loader] mesh %d primitive %d: skipping non-triangle mode %d", mi, pi, *prim.Mode)
				continue
			}
			posIndex, ok := prim.Attributes["POSITION"]
			if !ok {
				log.Printf("[Loader] mesh %d primitive %d: skipping primitive without POSITION", mi, pi)
				continue
			}
			positions, err := p.readVec3(posIndex)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = p.readIndices(*prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			if len(indices)%3 != 0 {
				return nil, fmt.Errorf("mesh %d primitive %d: %d indices do not form whole triangles", mi, pi, len(indices))
			}

			base := len(mesh.positions)
			mesh.positions = append(mesh.positions, positions...)
			for i := 0; i < len(indices); i += 3 {
				var face [3]int
				for c := 0; c < 3; c++ {
					idx := int(indices[i+c])
					if idx >= len(positions) {
						return nil, fmt.Errorf("mesh %d primitive %d: index %d out of range (%d vertices)", mi, pi, idx, len(positions))
					}
					face[c] = base + idx
				}
				mesh.faces = append(mesh.faces, face)
			}
		}
	}
	return mesh, nil
}
