package lod

import "github.com/onuse/cubeworld/cubesphere"

// TransitionKind distinguishes a chunk that is holding steady at one
// LOD from one actively crossfading between two.
type TransitionKind int

const (
	Stable TransitionKind = iota
	Transitioning
)

// TransitionState is a chunk's current LOD transition state.
type TransitionState struct {
	Kind     TransitionKind
	Lod      uint8 // valid when Stable
	FromLod  uint8 // valid when Transitioning
	ToLod    uint8
	Progress float32
	Duration float32
}

// TransitionConfig tunes the crossfade behavior.
type TransitionConfig struct {
	CrossfadeDuration float32
	EnableMorph       bool
	EnableCrossfade   bool
}

// DefaultTransitionConfig: a 0.3s crossfade with both morph and
// crossfade enabled.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{CrossfadeDuration: 0.3, EnableMorph: true, EnableCrossfade: true}
}

// TransitionManager tracks the transition state of every chunk
// currently mid-LOD-change.
type TransitionManager struct {
	Config TransitionConfig
	states map[cubesphere.ChunkAddress]TransitionState
}

// NewTransitionManager returns a manager under cfg.
func NewTransitionManager(cfg TransitionConfig) *TransitionManager {
	return &TransitionManager{Config: cfg, states: make(map[cubesphere.ChunkAddress]TransitionState)}
}

// OnLodChanged starts (or replaces) a transition for addr from the
// given LOD to another. A request arriving while addr is already
// transitioning replaces the in-flight transition rather than
// queuing it.
func (m *TransitionManager) OnLodChanged(addr cubesphere.ChunkAddress, from, to uint8) {
	m.states[addr] = TransitionState{
		Kind:     Transitioning,
		FromLod:  from,
		ToLod:    to,
		Progress: 0,
		Duration: m.Config.CrossfadeDuration,
	}
}

// Update advances every in-flight transition by dt seconds, returning
// the addresses of any that completed this step (and flips them to
// Stable at their target LOD).
func (m *TransitionManager) Update(dt float32) []cubesphere.ChunkAddress {
	var completed []cubesphere.ChunkAddress
	for addr, state := range m.states {
		if state.Kind != Transitioning {
			continue
		}
		state.Progress += dt / state.Duration
		if state.Progress >= 1.0 {
			m.states[addr] = TransitionState{Kind: Stable, Lod: state.ToLod}
			completed = append(completed, addr)
			continue
		}
		m.states[addr] = state
	}
	return completed
}

// CrossfadeAlphas returns the (fromAlpha, toAlpha) blend weights for
// addr: smoothstepped for a transitioning chunk, (0,1) for a stable or
// untracked one.
func (m *TransitionManager) CrossfadeAlphas(addr cubesphere.ChunkAddress) (from, to float32) {
	state, ok := m.states[addr]
	if !ok || state.Kind == Stable {
		return 0, 1
	}
	s := smoothStep(state.Progress)
	return 1 - s, s
}

// smoothStep is t*t*(3-2t), clamped to [0,1].
func smoothStep(t float32) float32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// State returns the current transition state for addr.
func (m *TransitionManager) State(addr cubesphere.ChunkAddress) TransitionState {
	if s, ok := m.states[addr]; ok {
		return s
	}
	return TransitionState{Kind: Stable}
}

// MorphVertex is a GPU morph-target vertex pairing a chunk's current
// LOD position/normal with the position/normal it is morphing toward,
// for renderer consumption during a crossfade.
type MorphVertex struct {
	Position      [3]float32
	MorphPosition [3]float32
	Normal        [3]float32
	MorphNormal   [3]float32
}
