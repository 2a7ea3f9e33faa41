package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	habitat *habitat.Habitat
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error if
// the evaluation exceeds EvalTimeout. A generation counter discards stale
// results: on timeout the goroutine may still be running, and any result it
// eventually produces must not be confused with a newer evaluation's.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*habitat.Habitat, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.habitat, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
