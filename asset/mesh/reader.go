package mesh

import (
	"fmt"

	"github.com/JerryBerry12/glare-core-sub000/asset"
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read a mesh from a resource.
	Read(*asset.Resource) (*Mesh, error)
}

// Read a mesh from a local file or URL. The reader is selected based on the
// file extension.
func ReadMesh(pathToMesh string) (*Mesh, error) {
	res, err := asset.NewResource(pathToMesh, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	var reader Reader
	switch res.Ext() {
	case ".obj":
		reader = newWavefrontReader()
	case ".gltf", ".glb":
		reader = newGLTFReader()
	default:
		return nil, fmt.Errorf("readMesh: unsupported file format %q", res.Ext())
	}
	return reader.Read(res)
}
