// Package model provides the shared estimator contracts and fitted-state
// tracking used by every pipeline component.
package model

import (
	"sync"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// State tracks whether a component has been fitted, along with the data
// dimensions seen at fit time. Components hold it by composition.
type State struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewState creates an unfitted State.
func NewState() *State {
	return &State{}
}

// IsFitted reports whether the component has been fitted.
func (s *State) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the component as fitted with the given dimensions.
func (s *State) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Reset returns the component to the unfitted state.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}

// Dimensions returns the feature and sample counts seen during fitting.
func (s *State) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming the model and method when the
// component has not been fitted yet.
func (s *State) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
