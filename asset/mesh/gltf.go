package mesh

import (
	"fmt"
	"time"

	"github.com/JerryBerry12/glare-core-sub000/asset"
	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Reads triangle geometry from glTF (.gltf) and binary glTF (.glb) files.
// Positions are read in mesh space; node transforms are not applied.
type gltfReader struct {
	logger log.Logger
}

func newGLTFReader() *gltfReader {
	return &gltfReader{
		logger: log.New("gltf reader"),
	}
}

// Read mesh geometry. Local files are opened by path so that external
// buffers can be resolved; other resources are decoded from the stream and
// must embed their buffers.
func (r *gltfReader) Read(res *asset.Resource) (*Mesh, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	var doc *gltf.Document
	var err error
	if res.IsLocalFile() {
		doc, err = gltf.Open(res.Path())
	} else {
		doc = new(gltf.Document)
		err = gltf.NewDecoder(res).Decode(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("gltf: could not decode %q: %w", res.Path(), err)
	}

	mesh := New(res.Path())
	for meshIndex, m := range doc.Meshes {
		if err := r.appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("gltf: mesh %d (%q): %w", meshIndex, m.Name, err)
		}
	}

	if mesh.Rejected() > 0 {
		r.logger.Warningf("skipped %d degenerate triangles", mesh.Rejected())
	}
	r.logger.Noticef("parsed %d triangles in %d ms", mesh.NumTriangles(), time.Since(start).Nanoseconds()/1e6)
	return mesh, nil
}

// Append the triangle primitives of m to the mesh. Primitives using other
// topologies are skipped.
func (r *gltfReader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for primIndex, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			r.logger.Infof("skipping primitive %d of mesh %q with mode %v", primIndex, m.Name, prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if posIdx < 0 || posIdx >= len(doc.Accessors) {
			return fmt.Errorf("primitive %d: position accessor %d out of range", primIndex, posIdx)
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("primitive %d: read positions: %w", primIndex, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
				return fmt.Errorf("primitive %d: index accessor %d out of range", primIndex, *prim.Indices)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("primitive %d: read indices: %w", primIndex, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		if len(indices)%3 != 0 {
			return fmt.Errorf("primitive %d: index count %d is not a multiple of 3", primIndex, len(indices))
		}

		for i := 0; i < len(indices); i += 3 {
			var verts [3]types.Vec3
			for j := 0; j < 3; j++ {
				vIdx := indices[i+j]
				if int(vIdx) >= len(positions) {
					return fmt.Errorf("primitive %d: vertex index %d out of range", primIndex, vIdx)
				}
				verts[j] = types.Vec3(positions[vIdx])
			}
			mesh.AddTriangle(verts)
		}
	}
	return nil
}
