package fluid

import (
	"errors"
	"fmt"
	"math"
)

// Body is a rigid solid obstacle described by a signed distance function.
// Distances are negative inside the body. All coordinates are world units.
//
// The set of bodies is closed: use NewBox or NewDisk.
type Body interface {
	Distance(x, y float64) float64
	ClosestSurfacePoint(x, y float64) (float64, float64)
	// SurfaceNormal returns the outward unit normal of the surface nearest
	// to (x, y).
	SurfaceNormal(x, y float64) (float64, float64)
	// VelocityAt returns the rigid velocity v + ω × r at (x, y).
	VelocityAt(x, y float64) (float64, float64)
	// Advance integrates position and orientation over dt.
	Advance(dt float64)

	validate() error
}

// rigid holds the kinematic state shared by every body shape.
type rigid struct {
	posX, posY float64
	theta      float64
	velX, velY float64
	omega      float64
}

func (r *rigid) Position() (float64, float64) { return r.posX, r.posY }

// Rotation is the orientation in radians, counter-clockwise.
func (r *rigid) Rotation() float64 { return r.theta }

func (r *rigid) VelocityAt(x, y float64) (float64, float64) {
	return r.velX - r.omega*(y-r.posY), r.velY + r.omega*(x-r.posX)
}

func (r *rigid) Advance(dt float64) {
	r.posX += r.velX * dt
	r.posY += r.velY * dt
	r.theta += r.omega * dt
}

func (r *rigid) toLocal(x, y float64) (float64, float64) {
	return rotate(x-r.posX, y-r.posY, -r.theta)
}

func (r *rigid) toGlobal(x, y float64) (float64, float64) {
	x, y = rotate(x, y, r.theta)
	return x + r.posX, y + r.posY
}

func (r *rigid) validate() error {
	for _, v := range [...]float64{r.posX, r.posY, r.theta, r.velX, r.velY, r.omega} {
		if !isFinite(v) {
			return errors.New("pose and velocity must be finite")
		}
	}
	return nil
}

// Box is a rectangle centred on its position and rotated by its orientation.
type Box struct {
	rigid
	halfW, halfH float64
}

// NewBox creates a width x height box centred at (x, y), rotated by theta,
// moving with linear velocity (vx, vy) and angular velocity omega.
func NewBox(x, y, width, height, theta, vx, vy, omega float64) *Box {
	return &Box{
		rigid: rigid{posX: x, posY: y, theta: theta, velX: vx, velY: vy, omega: omega},
		halfW: 0.5 * width,
		halfH: 0.5 * height,
	}
}

func (b *Box) Distance(x, y float64) float64 {
	lx, ly := b.toLocal(x, y)
	dx := math.Abs(lx) - b.halfW
	dy := math.Abs(ly) - b.halfH

	if dx >= 0.0 || dy >= 0.0 {
		return length(max(dx, 0.0), max(dy, 0.0))
	}
	return max(dx, dy)
}

func (b *Box) ClosestSurfacePoint(x, y float64) (float64, float64) {
	lx, ly := b.toLocal(x, y)
	dx := math.Abs(lx) - b.halfW
	dy := math.Abs(ly) - b.halfH

	switch {
	case dx > 0.0 || dy > 0.0:
		lx = clamp(lx, -b.halfW, b.halfW)
		ly = clamp(ly, -b.halfH, b.halfH)
	case dx > dy:
		lx = nsgn(lx) * b.halfW
	default:
		ly = nsgn(ly) * b.halfH
	}
	return b.toGlobal(lx, ly)
}

func (b *Box) SurfaceNormal(x, y float64) (float64, float64) {
	lx, ly := b.toLocal(x, y)

	var nx, ny float64
	if math.Abs(lx)-b.halfW > math.Abs(ly)-b.halfH {
		nx = nsgn(lx)
	} else {
		ny = nsgn(ly)
	}
	return rotate(nx, ny, b.theta)
}

func (b *Box) validate() error {
	if b == nil {
		return errors.New("nil box")
	}
	if !isFinite(b.halfW) || !isFinite(b.halfH) || b.halfW <= 0 || b.halfH <= 0 {
		return fmt.Errorf("box extents must be positive, got %gx%g", 2*b.halfW, 2*b.halfH)
	}
	return b.rigid.validate()
}

// Disk is a circle of fixed radius.
type Disk struct {
	rigid
	radius float64
}

// NewDisk creates a disk of the given radius centred at (x, y), moving with
// linear velocity (vx, vy) and angular velocity omega.
func NewDisk(x, y, radius, vx, vy, omega float64) *Disk {
	return &Disk{
		rigid:  rigid{posX: x, posY: y, velX: vx, velY: vy, omega: omega},
		radius: radius,
	}
}

func (d *Disk) Distance(x, y float64) float64 {
	return length(x-d.posX, y-d.posY) - d.radius
}

func (d *Disk) ClosestSurfacePoint(x, y float64) (float64, float64) {
	nx, ny := d.SurfaceNormal(x, y)
	return d.posX + nx*d.radius, d.posY + ny*d.radius
}

// SurfaceNormal is radial. Points within 1e-4 of the centre get +x.
func (d *Disk) SurfaceNormal(x, y float64) (float64, float64) {
	x -= d.posX
	y -= d.posY
	r := length(x, y)
	if r < 1e-4 {
		return 1.0, 0.0
	}
	return x / r, y / r
}

func (d *Disk) validate() error {
	if d == nil {
		return errors.New("nil disk")
	}
	if !isFinite(d.radius) || d.radius <= 0 {
		return fmt.Errorf("disk radius must be positive, got %g", d.radius)
	}
	return d.rigid.validate()
}

// minDistance returns the combined signed distance of all bodies and the
// index of the nearest one. Ties keep the lower index.
func minDistance(bodies []Body, x, y float64) (float64, int) {
	d := bodies[0].Distance(x, y)
	owner := 0
	for i := 1; i < len(bodies); i++ {
		if di := bodies[i].Distance(x, y); di < d {
			d = di
			owner = i
		}
	}
	return d, owner
}
