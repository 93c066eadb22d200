package cubesphere

import "testing"

var allFaces = [6]CubeFace{PosX, NegX, PosY, NegY, PosZ, NegZ}

func TestAdjacencyNoSelfAdjacency(t *testing.T) {
	for _, f := range allFaces {
		for _, e := range allEdges {
			if adj := FaceAdjacency(f, e); adj.NeighborFace == f {
				t.Errorf("%v/%v adjoins itself", f, e)
			}
		}
	}
}

func TestAdjacencyIsInvolution(t *testing.T) {
	for _, f := range allFaces {
		for _, e := range allEdges {
			adj := FaceAdjacency(f, e)
			back := FaceAdjacency(adj.NeighborFace, adj.NeighborEdge)
			if back.NeighborFace != f || back.NeighborEdge != e {
				t.Errorf("%v/%v -> %v/%v -> %v/%v, not an involution",
					f, e, adj.NeighborFace, adj.NeighborEdge, back.NeighborFace, back.NeighborEdge)
			}
		}
	}
}

func TestAdjacencyFlipSymmetric(t *testing.T) {
	for _, f := range allFaces {
		for _, e := range allEdges {
			adj := FaceAdjacency(f, e)
			back := FaceAdjacency(adj.NeighborFace, adj.NeighborEdge)
			if back.Flipped != adj.Flipped {
				t.Errorf("%v/%v flip=%v but reverse flip=%v", f, e, adj.Flipped, back.Flipped)
			}
		}
	}
}

func TestAdjacencyOppositeNeverAdjacent(t *testing.T) {
	for _, f := range allFaces {
		opp := f.Opposite()
		for _, e := range allEdges {
			if adj := FaceAdjacency(f, e); adj.NeighborFace == opp {
				t.Errorf("%v/%v adjoins opposite face %v", f, e, opp)
			}
		}
	}
}

func TestAdjacencyFourDistinctNeighbors(t *testing.T) {
	for _, f := range allFaces {
		seen := map[CubeFace]bool{}
		for _, e := range allEdges {
			seen[FaceAdjacency(f, e).NeighborFace] = true
		}
		if len(seen) != 4 {
			t.Errorf("%v has %d distinct neighbors, want 4", f, len(seen))
		}
	}
}

func TestAdjacencyTotal24Entries(t *testing.T) {
	count := 0
	for _, row := range adjacencyTable {
		count += len(row)
	}
	if count != 24 {
		t.Fatalf("expected 24 (face,edge) pairs, got %d", count)
	}
}

func TestUVRoundTripAcrossEdge(t *testing.T) {
	for _, f := range allFaces {
		for _, e := range allEdges {
			var u, v float64 = 0.37, 0.37
			switch e {
			case North:
				v = 1
			case South:
				v = 0
			case East:
				u = 1
			case West:
				u = 0
			}
			across := TransformUVAcrossEdge(f, e, u, v)
			adj := FaceAdjacency(f, e)
			back := TransformUVAcrossEdge(across.Face, adj.NeighborEdge, across.U, across.V)
			if back.Face != f {
				t.Errorf("%v/%v round trip landed on %v, want %v", f, e, back.Face, f)
			}
		}
	}
}
