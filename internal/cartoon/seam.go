package cartoon

// ReconcileSeam averages the normals where mesh a ends and mesh b begins so
// adjacent segments shade without a visible crease. The last body ring of a
// and the first ring of b share positions; each pair of matching vertices
// gets the normalized sum of both normals. Nothing happens if either mesh
// is nil, lacks normals, or the ring sizes differ.
func ReconcileSeam(a, b *Mesh, sidesPerRing int) {
	if a == nil || b == nil || sidesPerRing <= 0 {
		return
	}
	if a.SidesPerRing != sidesPerRing || b.SidesPerRing != sidesPerRing {
		return
	}
	if a.Rings == 0 || b.Rings == 0 || len(a.Normals) < a.BodyVertexCount() || len(b.Normals) < sidesPerRing {
		return
	}
	last, _ := a.Ring(a.Rings - 1)
	for k := 0; k < sidesPerRing; k++ {
		n := a.Normals[last+k].Add(b.Normals[k]).Normalize()
		a.Normals[last+k] = n
		b.Normals[k] = n
	}
}
