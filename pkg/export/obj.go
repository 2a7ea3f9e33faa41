package export

import (
	"fmt"
	"strings"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// boxQuads indexes the Corners ordering of geom.Corners: bottom ring first,
// then the top ring. Faces wind outward.
var boxQuads = [6][4]int{
	{3, 2, 1, 0}, // bottom (-Y)
	{4, 5, 6, 7}, // top (+Y)
	{0, 1, 5, 4}, // -Z side
	{1, 2, 6, 5}, // +X side
	{2, 3, 7, 6}, // +Z side
	{3, 0, 4, 7}, // -X side
}

// OBJ renders every module as a named box object in a single Wavefront OBJ
// scene. Vertices are in world space, so the file drops straight into any
// viewer. Modules whose definition no longer resolves are skipped.
func OBJ(h *habitat.Habitat) string {
	var b strings.Builder
	b.WriteString("# space habitat layout\n")

	offset := 0
	for i, m := range h.Modules() {
		def := h.Definition(m.ID)
		if def == nil {
			continue
		}

		fmt.Fprintf(&b, "o %s_%d\n", def.ID, i+1)

		t := m.Transform()
		corners := geom.Corners(geom.BoxAt(geom.Vec{}, def.Dimensions))
		for _, c := range corners {
			w := t.Point(c)
			fmt.Fprintf(&b, "v %.6f %.6f %.6f\n", w.X, w.Y, w.Z)
		}
		for _, q := range boxQuads {
			fmt.Fprintf(&b, "f %d %d %d %d\n",
				offset+q[0]+1, offset+q[1]+1, offset+q[2]+1, offset+q[3]+1)
		}
		offset += len(corners)
	}

	return b.String()
}
