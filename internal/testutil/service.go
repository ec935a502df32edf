package testutil

import (
	"gits-go/internal/encryption"
	"gits-go/internal/gits"
	"gits-go/internal/jobs"
	"gits-go/internal/objectstore"
	"gits-go/internal/runner"
	"gits-go/internal/scheduler"
	"gits-go/internal/secretstore"
	"gits-go/internal/trigger"
)

// ServiceFixture is a scheduler.Service wired entirely to in-memory
// collaborators, exposed so tests can seed and inspect them.
type ServiceFixture struct {
	Service  *scheduler.Service
	Objects  *objectstore.MemoryStore
	Triggers *trigger.MemoryService
	Secrets  *secretstore.MemoryStore
	Jobs     *jobs.MemoryStore
	Runner   *runner.MemoryInspector
	Clock    *StubClock
	IDs      *StubIDGenerator
}

// NewServiceFixture creates a fully in-memory scheduler service. The clock
// starts at FixedClock's instant and tokens are sealed with the reversible
// test sealer.
func NewServiceFixture() *ServiceFixture {
	f := &ServiceFixture{
		Objects:  objectstore.NewMemoryStore("test-bucket"),
		Triggers: trigger.NewMemoryService(),
		Secrets:  secretstore.NewMemoryStore(),
		Jobs:     jobs.NewMemoryStore(),
		Runner:   runner.NewMemoryInspector(),
		Clock:    FixedClock(),
		IDs:      NewStubIDGenerator(),
	}
	f.Service = scheduler.NewService(
		f.Objects, f.Triggers, f.Secrets, f.Jobs, f.Runner,
		encryption.NewTestSealer(), f.Clock, f.IDs, gits.NewNopLogger(),
	)
	return f
}
