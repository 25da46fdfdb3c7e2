package fem

import (
	"fmt"
)

// Cell is a single quadrilateral mesh cell. Vertices are stored in
// lexicographic reference order: (0,0), (1,0), (0,1), (1,1). Faces are
// numbered bottom 0, right 1, top 2, left 3, matching the reference face
// embeddings used by the face evaluator.
type Cell struct {
	ID    int
	Verts [][]float64
}

func (c *Cell) Dim() int {
	return len(c.Verts[0])
}

// faceVertexPairs[f] lists the start and end vertex of face f as the face
// parameter t runs from 0 to 1, for the 2-D cell.
var faceVertexPairs = [4][2]int{
	{0, 1}, // bottom: (t,0)
	{1, 3}, // right:  (1,t)
	{2, 3}, // top:    (t,1)
	{0, 2}, // left:   (0,t)
}

// FaceVerts returns the physical start and end points of face faceNo.
func (c *Cell) FaceVerts(faceNo int) (a, b []float64) {
	var (
		dim = c.Dim()
	)
	if faceNo < 0 || faceNo >= 2*dim {
		panic(fmt.Errorf("index out of range: face index = %d, cell has %d faces", faceNo, 2*dim))
	}
	if dim != 2 {
		panic(fmt.Errorf("face vertices not implemented for dimension %d", dim))
	}
	pair := faceVertexPairs[faceNo]
	return c.Verts[pair[0]], c.Verts[pair[1]]
}

// BoundaryFace identifies one face of one cell lying on the mesh boundary,
// tagged with the side of the domain it belongs to.
type BoundaryFace struct {
	Cell int // index into Mesh.Cells
	Face int
	Side string // "bottom", "right", "top" or "left"
}

// Mesh is a structured Cartesian quad mesh of the rectangle
// [0,XMax] x [0,YMax], Nx by Ny cells.
type Mesh struct {
	Nx, Ny     int
	XMax, YMax float64
	Cells      []Cell
	BFaces     []BoundaryFace
}

var faceSides = [4]string{"bottom", "right", "top", "left"}

func NewCartesianMesh(nx, ny int, xmax, ymax float64) (msh *Mesh) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("mesh must have at least one cell per direction, have %dx%d", nx, ny))
	}
	msh = &Mesh{
		Nx:   nx,
		Ny:   ny,
		XMax: xmax,
		YMax: ymax,
	}
	var (
		dx = xmax / float64(nx)
		dy = ymax / float64(ny)
	)
	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx < nx; cx++ {
			var (
				x0 = float64(cx) * dx
				y0 = float64(cy) * dy
			)
			cell := Cell{
				ID: len(msh.Cells),
				Verts: [][]float64{
					{x0, y0},
					{x0 + dx, y0},
					{x0, y0 + dy},
					{x0 + dx, y0 + dy},
				},
			}
			if cy == 0 {
				msh.BFaces = append(msh.BFaces, BoundaryFace{cell.ID, 0, faceSides[0]})
			}
			if cx == nx-1 {
				msh.BFaces = append(msh.BFaces, BoundaryFace{cell.ID, 1, faceSides[1]})
			}
			if cy == ny-1 {
				msh.BFaces = append(msh.BFaces, BoundaryFace{cell.ID, 2, faceSides[2]})
			}
			if cx == 0 {
				msh.BFaces = append(msh.BFaces, BoundaryFace{cell.ID, 3, faceSides[3]})
			}
			msh.Cells = append(msh.Cells, cell)
		}
	}
	return
}

// DofMap numbers the nodes of a tensor product Lagrange element of the given
// order globally across the mesh, so that coincident nodes of neighboring
// cells share one degree of freedom.
type DofMap struct {
	Order        int
	NDofs        int
	nodesX       int // global nodes per row
	nodesY       int
	msh          *Mesh
	cellDofs     [][]int
	dofPoints    [][]float64
	boundaryDofs []int
}

func NewDofMap(msh *Mesh, order int) (dm *DofMap) {
	if order < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1, have %d", order))
	}
	var (
		nx, ny = msh.Nx, msh.Ny
		np1    = order + 1
	)
	dm = &DofMap{
		Order:  order,
		nodesX: order*nx + 1,
		nodesY: order*ny + 1,
		msh:    msh,
	}
	dm.NDofs = dm.nodesX * dm.nodesY
	var (
		dx = msh.XMax / float64(order*nx)
		dy = msh.YMax / float64(order*ny)
	)
	dm.dofPoints = make([][]float64, dm.NDofs)
	for gy := 0; gy < dm.nodesY; gy++ {
		for gx := 0; gx < dm.nodesX; gx++ {
			g := gy*dm.nodesX + gx
			dm.dofPoints[g] = []float64{float64(gx) * dx, float64(gy) * dy}
			if gx == 0 || gy == 0 || gx == dm.nodesX-1 || gy == dm.nodesY-1 {
				dm.boundaryDofs = append(dm.boundaryDofs, g)
			}
		}
	}
	dm.cellDofs = make([][]int, len(msh.Cells))
	for ci := range msh.Cells {
		var (
			cx   = ci % nx
			cy   = ci / nx
			dofs = make([]int, np1*np1)
		)
		for i1 := 0; i1 < np1; i1++ {
			for i0 := 0; i0 < np1; i0++ {
				var (
					gx = cx*order + i0
					gy = cy*order + i1
				)
				dofs[i1*np1+i0] = gy*dm.nodesX + gx
			}
		}
		dm.cellDofs[ci] = dofs
	}
	return
}

// CellDofs returns the global dof numbers of cell ci, ordered like the
// element's local dofs (first coordinate cycling fastest).
func (dm *DofMap) CellDofs(ci int) []int {
	if ci < 0 || ci >= len(dm.cellDofs) {
		panic(fmt.Errorf("index out of range: cell index = %d, mesh has %d cells", ci, len(dm.cellDofs)))
	}
	return dm.cellDofs[ci]
}

// DofPoint returns the mesh coordinates of global dof g.
func (dm *DofMap) DofPoint(g int) []float64 {
	if g < 0 || g >= dm.NDofs {
		panic(fmt.Errorf("index out of range: dof index = %d, total dofs = %d", g, dm.NDofs))
	}
	return dm.dofPoints[g]
}

// BoundaryDofs returns the global dofs whose nodes lie on the mesh boundary.
func (dm *DofMap) BoundaryDofs() []int {
	return dm.boundaryDofs
}
