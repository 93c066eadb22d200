package lod

import (
	"testing"

	"github.com/onuse/cubeworld/cubesphere"
)

func TestOnLodChangedWhileTransitioningReplaces(t *testing.T) {
	m := NewTransitionManager(DefaultTransitionConfig())
	addr := cubesphere.ChunkAddress{X: 1}
	m.OnLodChanged(addr, 2, 3)
	m.Update(0.2)
	m.OnLodChanged(addr, 2, 4) // replace mid-flight
	state := m.State(addr)
	if state.Kind != Transitioning || state.ToLod != 4 || state.Progress != 0 {
		t.Fatalf("expected replaced transition to 4 at progress 0, got %+v", state)
	}
}

func TestUpdateCompletesAndReportsCompleted(t *testing.T) {
	m := NewTransitionManager(TransitionConfig{CrossfadeDuration: 1.0})
	addr := cubesphere.ChunkAddress{X: 1}
	m.OnLodChanged(addr, 1, 2)
	m.Update(0.5)
	if len(m.Update(0.6)) == 0 {
		t.Fatalf("expected transition to complete")
	}
	state := m.State(addr)
	if state.Kind != Stable || state.Lod != 2 {
		t.Fatalf("expected stable at lod 2, got %+v", state)
	}
}

func TestCrossfadeAlphasStableIsFullyOpaque(t *testing.T) {
	m := NewTransitionManager(DefaultTransitionConfig())
	from, to := m.CrossfadeAlphas(cubesphere.ChunkAddress{X: 99})
	if from != 0 || to != 1 {
		t.Fatalf("expected (0,1) for untracked/stable chunk, got (%v,%v)", from, to)
	}
}

func TestCrossfadeAlphasMidTransitionSumToOne(t *testing.T) {
	m := NewTransitionManager(TransitionConfig{CrossfadeDuration: 1.0})
	addr := cubesphere.ChunkAddress{X: 1}
	m.OnLodChanged(addr, 1, 2)
	m.Update(0.5)
	from, to := m.CrossfadeAlphas(addr)
	if d := from + to; d < 0.999 || d > 1.001 {
		t.Fatalf("expected alphas to sum to 1, got %v", d)
	}
}
