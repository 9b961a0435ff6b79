package viz

import (
	"math"
	"sort"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

// Camera projects world-space layout coordinates onto the canvas with
// free rotation around the three axes and zoom.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	// WorldScale maps world units to the normalized projection cube;
	// FitTo updates it so the whole layout stays on screen.
	WorldScale float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0, WorldScale: 1.0 / 40}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// FitTo rescales the projection so the farthest node from the centroid
// lands inside the unit cube. A padding factor keeps motion from
// clipping at the edges.
func (c *Camera) FitTo(nodes []force.Node) {
	if len(nodes) == 0 {
		return
	}
	var centroid force.Vec3
	for i := range nodes {
		centroid = centroid.Add(nodes[i].Position)
	}
	centroid = centroid.Scale(1 / float64(len(nodes)))

	max := 0.0
	for i := range nodes {
		max = math.Max(max, nodes[i].Position.Sub(centroid).Length())
	}
	if max > 0 {
		c.WorldScale = 1 / (max * 1.2)
	}
}

func (c *Camera) rotate(p force.Vec3) force.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world point to sub-pixel canvas coordinates. The
// returned depth orders painter's-algorithm drawing; ok reports whether
// the point lands on screen.
func (c *Camera) Project(p force.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	rot := c.rotate(p.Scale(c.WorldScale)).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)

	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	scale := minDim / 3.0
	x = int(rot.X*persp*scale) + sw/2
	y = int(-rot.Y*persp*scale) + sh/2
	return x, y, rot.Z, x >= 0 && x < sw && y >= 0 && y < sh
}

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
	point          bool
}

// RenderGraph draws links as segments and nodes as dots, far to near.
func RenderGraph(c *Canvas, cam *Camera, nodes []force.Node, links []force.Link) {
	if c == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4

	prims := make([]projected, 0, len(nodes)+len(links))
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) {
			continue
		}
		x1, y1, d1, ok1 := cam.Project(nodes[l.Source].Position, sw, sh)
		x2, y2, d2, ok2 := cam.Project(nodes[l.Target].Position, sw, sh)
		if ok1 || ok2 {
			prims = append(prims, projected{x1, y1, x2, y2, (d1 + d2) / 2, false})
		}
	}
	for i := range nodes {
		x, y, d, ok := cam.Project(nodes[i].Position, sw, sh)
		if ok {
			prims = append(prims, projected{x, y, x, y, d, true})
		}
	}

	sort.Slice(prims, func(i, j int) bool { return prims[i].depth < prims[j].depth })
	for _, p := range prims {
		if p.point {
			c.Set(p.x1, p.y1)
		} else {
			c.DrawLine(p.x1, p.y1, p.x2, p.y2)
		}
	}
}
