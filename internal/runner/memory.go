package runner

import (
	"context"
	"fmt"
	"sync"
)

// MemoryInspector is an in-memory Inspector for tests.
type MemoryInspector struct {
	mu     sync.Mutex
	owners map[string]string // buildID -> userID
}

var _ Inspector = (*MemoryInspector)(nil)

func NewMemoryInspector() *MemoryInspector {
	return &MemoryInspector{owners: make(map[string]string)}
}

// AddBuild records the owner of a build id.
func (i *MemoryInspector) AddBuild(buildID, userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.owners[buildID] = userID
}

func (i *MemoryInspector) BuildOwner(_ context.Context, buildID string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	userID, ok := i.owners[buildID]
	if !ok {
		return "", fmt.Errorf("no build found for id %s", buildID)
	}
	return userID, nil
}
