package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JerryBerry12/glare-core-sub000/asset"
	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/JerryBerry12/glare-core-sub000/types"
)

// Reads triangle geometry from wavefront .obj files. Only vertex positions
// and faces are used; texture coordinates, normals and materials are ignored.
type wavefrontReader struct {
	logger log.Logger

	mesh       *Mesh
	vertexList []types.Vec3

	// Include chain used for error reporting.
	errStack []string
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger:     log.New("wavefront reader"),
		vertexList: make([]types.Vec3, 0),
		errStack:   make([]string, 0),
	}
}

// Read mesh geometry.
func (r *wavefrontReader) Read(res *asset.Resource) (*Mesh, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	r.mesh = New(res.Path())
	if err := r.parse(res); err != nil {
		return nil, err
	}

	if r.mesh.Rejected() > 0 {
		r.logger.Warningf("skipped %d degenerate triangles", r.mesh.Rejected())
	}
	r.logger.Noticef("parsed %d triangles in %d ms", r.mesh.NumTriangles(), time.Since(start).Nanoseconds()/1e6)
	return r.mesh, nil
}

// Generate an error message that also includes the include chain.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return errors.New(strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object geometry.
func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int

	// Included files use 1-based indices relative to their own vertices.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'call'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "o":
			if r.mesh.Name == res.Path() && len(lineTokens) > 1 {
				r.mesh.Name = lineTokens[1]
			}
		case "f":
			if err := r.parseFace(lineTokens, relVertexOffset); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse a face definition and append it to the mesh. Faces with more than 3
// vertices are triangulated as a fan around the first vertex.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset int) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	vertices := make([]types.Vec3, len(lineTokens)-1)
	for arg := range vertices {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	for index := 2; index < len(vertices); index++ {
		r.mesh.AddTriangle([3]types.Vec3{vertices[0], vertices[index-1], vertices[index]})
	}
	return nil
}

// Given a face vertex index token calculate the offset into the vertex list.
// Negative indices reference vertices from the end of the list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
