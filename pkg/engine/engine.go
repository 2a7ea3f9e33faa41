// Package engine evaluates habitat layout scripts. It wraps zygomys in a
// sandboxed environment and produces a populated Habitat from user source
// code, so a whole station layout can be described, versioned, and replayed
// as text.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates layout scripts against a module catalog. It is safe for
// concurrent use; each call to Evaluate builds a fresh habitat in a fresh
// sandbox for determinism.
type Engine struct {
	catalog *catalog.Catalog

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an engine that resolves module definitions against cat.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Evaluate runs a layout script and returns the habitat it describes.
//
// Return semantics:
//   - On success: habitat + nil errors + nil error
//   - On parse/eval failure: nil habitat + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*habitat.Habitat, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		h, evalErrs, err := e.evaluate(source)
		ch <- evalResult{habitat: h, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*habitat.Habitat, []EvalError, error) {
	// Empty source is a valid program that produces an empty habitat.
	if strings.TrimSpace(source) == "" {
		return habitat.New(e.catalog), nil, nil
	}

	h := habitat.New(e.catalog)
	mg := habitat.NewManager(h)

	// Sandbox mode keeps user scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, mg)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return h, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
