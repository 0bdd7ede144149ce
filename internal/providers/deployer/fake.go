package deployer

import (
	"context"
	"sync"
)

// Fake is the in-memory collaborator used by tests and local development. It
// scripts one provision outcome and a queue of status reads.
type Fake struct {
	mu sync.Mutex

	ProvisionResp ProvisionResponse
	ProvisionErr  error
	StatusQueue   []StatusResponse
	StatusErr     error

	ProvisionCalls int
	StatusCalls    int
	LastRequest    ProvisionRequest
}

func (f *Fake) Provision(ctx context.Context, req ProvisionRequest) (ProvisionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProvisionCalls++
	f.LastRequest = req
	if f.ProvisionErr != nil {
		return ProvisionResponse{}, f.ProvisionErr
	}
	return f.ProvisionResp, nil
}

// Status pops the next scripted read; the final entry repeats once drained.
func (f *Fake) Status(ctx context.Context, siteID string) (StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls++
	if f.StatusErr != nil {
		return StatusResponse{}, f.StatusErr
	}
	if len(f.StatusQueue) == 0 {
		return StatusResponse{Status: "building"}, nil
	}
	next := f.StatusQueue[0]
	if len(f.StatusQueue) > 1 {
		f.StatusQueue = f.StatusQueue[1:]
	}
	return next, nil
}
