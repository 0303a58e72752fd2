// Package cluster partitions 2-D points into k groups by iterative centroid
// assignment. It is independent of any color-space handling so it can be
// exercised on synthetic point sets.
package cluster

import (
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
)

// Point is a 2-D observation tagged with the index of its source element so
// cluster membership can be mapped back after partitioning.
type Point struct {
	Index int
	X, Y  float64
}

// Coordinates implements clusters.Observation.
func (p Point) Coordinates() clusters.Coordinates {
	return clusters.Coordinates{p.X, p.Y}
}

// Distance implements clusters.Observation using squared Euclidean distance,
// which preserves nearest-centroid ordering without the square root.
func (p Point) Distance(c clusters.Coordinates) float64 {
	dx := p.X - c[0]
	dy := p.Y - c[1]
	return dx*dx + dy*dy
}

// Group is one cluster of a partition.
type Group struct {
	CenterX float64
	CenterY float64
	Members []Point
}

// Size returns the number of member points.
func (g Group) Size() int {
	return len(g.Members)
}

// Partition splits points into k groups. The underlying solver stops on
// assignment stability or its internal iteration cap; hitting the cap returns
// the last assignment rather than an error.
func Partition(points []Point, k int) ([]Group, error) {
	if k < 1 {
		return nil, errors.Errorf("cluster count must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, errors.Errorf("need at least %d points to form %d clusters, got %d", k, k, len(points))
	}

	obs := make(clusters.Observations, len(points))
	for i, p := range points {
		obs[i] = p
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, k)
	if err != nil {
		return nil, errors.Wrap(err, "kmeans partition")
	}

	groups := make([]Group, len(cc))
	for i, c := range cc {
		g := Group{
			CenterX: c.Center[0],
			CenterY: c.Center[1],
			Members: make([]Point, 0, len(c.Observations)),
		}
		for _, o := range c.Observations {
			g.Members = append(g.Members, o.(Point))
		}
		groups[i] = g
	}
	return groups, nil
}
