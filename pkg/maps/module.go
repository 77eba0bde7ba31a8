// Package maps reads and writes MapSetup assets: the grid of cubes holding
// every placed object in a map, followed by the map's cameras and lights.
package maps

// Placed identifies a prop by the cube that holds it.
type Placed[T any] struct {
	Cube int
	Prop T
}

func (m *MapSetup) Options() Options {
	return m.options
}

// TakeProps1 removes every Prop1 matching the predicate and returns them in
// grid order.
func (m *MapSetup) TakeProps1(matches func(Prop1) bool) []Placed[Prop1] {
	taken := make([]Placed[Prop1], 0)
	for i := range m.Cubes {
		cube := &m.Cubes[i]
		kept := cube.Props1[:0]
		for _, prop := range cube.Props1 {
			if matches(prop) {
				taken = append(taken, Placed[Prop1]{Cube: i, Prop: prop})
				continue
			}
			kept = append(kept, prop)
		}
		cube.Props1 = kept
	}
	return taken
}

// TakeProps2 is TakeProps1 for Prop2.
func (m *MapSetup) TakeProps2(matches func(Prop2) bool) []Placed[Prop2] {
	taken := make([]Placed[Prop2], 0)
	for i := range m.Cubes {
		cube := &m.Cubes[i]
		kept := cube.Props2[:0]
		for _, prop := range cube.Props2 {
			if matches(prop) {
				taken = append(taken, Placed[Prop2]{Cube: i, Prop: prop})
				continue
			}
			kept = append(kept, prop)
		}
		cube.Props2 = kept
	}
	return taken
}

// FindProps1 returns pointers to every Prop1 matching the predicate. The
// pointers are invalidated by any change to the cubes.
func (m *MapSetup) FindProps1(matches func(Prop1) bool) []*Prop1 {
	found := make([]*Prop1, 0)
	for i := range m.Cubes {
		cube := &m.Cubes[i]
		for j := range cube.Props1 {
			if matches(cube.Props1[j]) {
				found = append(found, &cube.Props1[j])
			}
		}
	}
	return found
}

// NearestCube finds the populated cube whose center is closest to the
// position on the horizontal plane, preferring the closest in height when
// several are equally near. It returns -1 if no cube is within maxDistance.
func (m *MapSetup) NearestCube(position Position, maxDistance int64) int {
	best := -1
	var bestDistance, bestHeight int64
	for i := range m.Cubes {
		cube := &m.Cubes[i]
		if cube.Missing {
			continue
		}

		center := cube.Center()
		distance := position.HorizontalDistanceSquared(center)
		height := int64(position.Y) - int64(center.Y)
		if height < 0 {
			height = -height
		}

		if best == -1 ||
			distance < bestDistance ||
			(distance == bestDistance && height < bestHeight) {
			best = i
			bestDistance = distance
			bestHeight = height
		}
	}

	if best == -1 || bestDistance > maxDistance*maxDistance {
		return -1
	}

	return best
}

// CountProps returns the number of Prop1 and Prop2 across all cubes.
func (m *MapSetup) CountProps() (props1 int, props2 int) {
	for _, cube := range m.Cubes {
		props1 += len(cube.Props1)
		props2 += len(cube.Props2)
	}
	return props1, props2
}
