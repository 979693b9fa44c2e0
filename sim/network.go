// Models the road network as a weighted directed graph and answers
// travel-cost queries over it. Costs are asymmetric by construction: each
// input edge is inserted in its stated direction only, and nothing here
// assumes metric (triangle-inequality) behavior.

package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Network is the location graph. Locations are immutable once loaded; the
// node set is the union of all edge endpoints plus explicitly added
// locations (staging bases or call origins with no outgoing roads).
type Network struct {
	g     *simple.WeightedDirectedGraph
	ids   map[LocationID]int64
	names []LocationID // index = node id, for reverse lookup
}

// NewNetwork builds a Network from directed edge records. Negative, NaN or
// infinite costs fail with ErrInput, as do self-loops with nonzero cost;
// zero-cost self-loops are dropped (a node is at distance 0 from itself
// implicitly).
func NewNetwork(edges []EdgeRecord) (*Network, error) {
	n := &Network{
		g:   simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		ids: make(map[LocationID]int64),
	}
	for _, e := range edges {
		if math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) || e.Cost < 0 {
			return nil, fmt.Errorf("edge %s -> %s has cost %v: %w", e.From, e.To, e.Cost, ErrInput)
		}
		if e.From == e.To {
			if e.Cost != 0 {
				return nil, fmt.Errorf("self-loop at %s with cost %v: %w", e.From, e.Cost, ErrInput)
			}
			n.AddLocation(e.From)
			continue
		}
		f := n.AddLocation(e.From)
		t := n.AddLocation(e.To)
		n.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(f), T: simple.Node(t), W: e.Cost})
	}
	return n, nil
}

// AddLocation interns a location name, returning its node id. Idempotent.
func (n *Network) AddLocation(loc LocationID) int64 {
	if id, ok := n.ids[loc]; ok {
		return id
	}
	id := int64(len(n.names))
	n.ids[loc] = id
	n.names = append(n.names, loc)
	n.g.AddNode(simple.Node(id))
	return id
}

// Contains reports whether loc is in the node set.
func (n *Network) Contains(loc LocationID) bool {
	_, ok := n.ids[loc]
	return ok
}

// NumLocations returns the node count.
func (n *Network) NumLocations() int {
	return len(n.names)
}

// Resolver answers shortest-path travel-cost queries. Implementations fail
// with ErrUnknownLocation if either endpoint is absent and return +Inf for
// unreachable pairs.
type Resolver interface {
	TravelCost(from, to LocationID) (float64, error)
}

// Resolver names accepted by NewResolver.
const (
	ResolverDijkstra      = "dijkstra"
	ResolverFloydWarshall = "floyd-warshall"
)

// NewResolver creates a Resolver by name. On-demand Dijkstra trades setup
// time for per-query cost; Floyd-Warshall trades an O(V^3) precompute for
// O(1) lookups, which wins once queries approach calls x fleet size.
func NewResolver(name string, n *Network) (Resolver, error) {
	switch name {
	case "", ResolverDijkstra:
		return &DijkstraResolver{net: n, memo: make(map[int64]path.Shortest)}, nil
	case ResolverFloydWarshall:
		return NewFloydWarshallResolver(n)
	default:
		return nil, fmt.Errorf("unknown pathfinder %q: %w", name, ErrInput)
	}
}

// DijkstraResolver computes single-source shortest paths on demand,
// memoizing each source's shortest-path tree. Repeated nearest-unit searches
// from the same staging locations hit the memo.
type DijkstraResolver struct {
	net  *Network
	memo map[int64]path.Shortest
}

func (r *DijkstraResolver) TravelCost(from, to LocationID) (float64, error) {
	fid, ok := r.net.ids[from]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", from, ErrUnknownLocation)
	}
	tid, ok := r.net.ids[to]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", to, ErrUnknownLocation)
	}
	if fid == tid {
		return 0, nil
	}
	sp, ok := r.memo[fid]
	if !ok {
		sp = path.DijkstraFrom(simple.Node(fid), r.net.g)
		r.memo[fid] = sp
	}
	return sp.WeightTo(tid), nil
}

// FloydWarshallResolver precomputes all-pairs shortest paths at construction.
type FloydWarshallResolver struct {
	net   *Network
	paths path.AllShortest
}

// NewFloydWarshallResolver runs the all-pairs precompute. Edge costs are
// validated non-negative at network construction, so a negative cycle can
// only mean corrupted input.
func NewFloydWarshallResolver(n *Network) (*FloydWarshallResolver, error) {
	paths, ok := path.FloydWarshall(n.g)
	if !ok {
		return nil, fmt.Errorf("network contains a negative cycle: %w", ErrInput)
	}
	return &FloydWarshallResolver{net: n, paths: paths}, nil
}

func (r *FloydWarshallResolver) TravelCost(from, to LocationID) (float64, error) {
	fid, ok := r.net.ids[from]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", from, ErrUnknownLocation)
	}
	tid, ok := r.net.ids[to]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", to, ErrUnknownLocation)
	}
	if fid == tid {
		return 0, nil
	}
	return r.paths.Weight(fid, tid), nil
}

// Reachable reports whether cost is a finite travel cost.
func Reachable(cost float64) bool {
	return !math.IsInf(cost, 1)
}
