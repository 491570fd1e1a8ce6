// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/magnesium"
	"code.hybscloud.com/magnesium/port/simport"
)

func identityPrio(v uint32) int { return int(v) }

// =============================================================================
// NewContext - configuration validation
// =============================================================================

func TestNewContextRequiresPositivePriorities(t *testing.T) {
	port := simport.New(1, identityPrio)
	_, err := magnesium.NewContext(magnesium.WithPort(port), magnesium.WithMaxActors(1), magnesium.WithPriorities(0))
	if !errors.Is(err, magnesium.ErrNoPriorities) {
		t.Fatalf("WithPriorities(0): got %v, want ErrNoPriorities", err)
	}
}

func TestNewContextRequiresPort(t *testing.T) {
	_, err := magnesium.NewContext(magnesium.WithPriorities(1), magnesium.WithMaxActors(1))
	if !errors.Is(err, magnesium.ErrNoPort) {
		t.Fatalf("no port: got %v, want ErrNoPort", err)
	}
}

func TestNewContextRequiresMaxActors(t *testing.T) {
	port := simport.New(1, identityPrio)
	_, err := magnesium.NewContext(magnesium.WithPriorities(1), magnesium.WithPort(port))
	if !errors.Is(err, magnesium.ErrNoMaxActors) {
		t.Fatalf("no max actors: got %v, want ErrNoMaxActors", err)
	}
}

func TestNewContextRequiresPriorityVectorsForSMP(t *testing.T) {
	port := simport.New(2, identityPrio)
	_, err := magnesium.NewContext(
		magnesium.WithPriorities(2),
		magnesium.WithMaxActors(4),
		magnesium.WithCPUs(2),
		magnesium.WithPort(port),
	)
	if !errors.Is(err, magnesium.ErrPriorityVectors) {
		t.Fatalf("SMP with no priority vectors: got %v, want ErrPriorityVectors", err)
	}
}

func TestNewContextDefaults(t *testing.T) {
	port := simport.New(1, identityPrio)
	ctx, err := magnesium.NewContext(magnesium.WithPort(port), magnesium.WithMaxActors(4))
	if err != nil {
		t.Fatalf("NewContext with defaults: %v", err)
	}
	if ctx == nil {
		t.Fatalf("NewContext with defaults: got nil context")
	}
}
