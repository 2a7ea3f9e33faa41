package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms layout-script source before handing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal), so
//     keywords need not be registered as globals.
//
//  2. Kebab-case to underscore: auto-connect -> auto_connect. zygomys reads
//     a hyphen inside an identifier as subtraction.
//
//  3. ; line comments become // comments, which is what zygomys expects.
//
// All three respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Copy backtick-quoted string literals untouched.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to //.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword", keeping := intact.
		if b[i] == ':' && i+1 < len(b) {
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// alpha-alpha -> alpha_alpha, only when the hyphen sits between
		// identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec.
type sexpVec3 struct {
	vec geom.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpModuleRef wraps a placed module's ID so later builtins can address it.
type sexpModuleRef struct {
	id   habitat.ModuleID
	name string // definition ID, for readable error messages
}

func (m *sexpModuleRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(moduleref %q)", m.name)
}
func (m *sexpModuleRef) Type() *zygo.RegisteredType { return nil }

// sexpConnRef wraps a recorded connection's ID.
type sexpConnRef struct {
	id habitat.ConnectionID
}

func (c *sexpConnRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(connection %s)", c.id)
}
func (c *sexpConnRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts both a preprocessed keyword (:north) and a plain
// string ("north").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toModuleRef(s zygo.Sexp) (habitat.ModuleID, error) {
	if ref, ok := s.(*sexpModuleRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected module reference, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the layout DSL into a zygomys environment. The
// builtins place and arrange modules through the provided manager, so every
// mutation follows the same path the interactive editor uses.
//
// Source must go through preprocessSource first so that :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, mg *habitat.Manager) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		vals := make([]float64, 3)
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: argument %d: %w", i+1, err)
			}
			vals[i] = f
		}
		return &sexpVec3{vec: geom.V(vals[0], vals[1], vals[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (module "living-quarters" :at (vec3 0 0 -4.3) :rotate 180)
	//
	// An explicit :at position is used exactly as written; scripts state
	// coordinates, the grid is for mouse drops. Without :at the module lands
	// at the (snapped) optimal position next to the most recently placed
	// module. :rotate is the yaw angle in degrees.
	// -----------------------------------------------------------------------
	env.AddFunction("module", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("module requires a definition ID")
		}
		defID, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("module: definition: %w", err)
		}

		pos := mg.OptimalPosition("")
		if v, ok := pa.kw["at"]; ok {
			pos, err = toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("module: at: %w", err)
			}
		}

		var rotation geom.Vec
		if v, ok := pa.kw["rotate"]; ok {
			deg, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("module: rotate: %w", err)
			}
			rotation = geom.V(0, deg, 0)
		}

		m, err := mg.Habitat.AddModule(defID, pos, rotation)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("module: %w", err)
		}
		if err := mg.Habitat.Select(m.ID); err != nil {
			return zygo.SexpNull, fmt.Errorf("module: %w", err)
		}
		return &sexpModuleRef{id: m.ID, name: defID}, nil
	})

	// -----------------------------------------------------------------------
	// (move ref (vec3 0 0 -4.5))   absolute
	// (move ref :by (vec3 2 0 0))  relative
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("move requires a module reference")
		}
		id, err := toModuleRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}

		var pos geom.Vec
		switch {
		case len(pa.positional) >= 2:
			pos, err = toVec3(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("move: %w", err)
			}
		case pa.kw["by"] != nil:
			delta, err := toVec3(pa.kw["by"])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("move: by: %w", err)
			}
			m := mg.Habitat.Module(id)
			if m == nil {
				return zygo.SexpNull, fmt.Errorf("move: module %s no longer exists", id)
			}
			pos = m.Position.Add(delta)
		default:
			return zygo.SexpNull, fmt.Errorf("move requires a target position or :by offset")
		}

		if err := mg.Habitat.UpdateModule(id, habitat.ModuleUpdate{Position: &pos}); err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (rotate ref 90)   yaw in degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a module reference and an angle")
		}
		id, err := toModuleRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		deg, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}

		rot := geom.V(0, deg, 0)
		if err := mg.Habitat.UpdateModule(id, habitat.ModuleUpdate{Rotation: &rot}); err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (connect lq :north hub :south)
	//
	// Records the connection regardless of geometric validity; the validator
	// reports any mismatch afterwards, same as in the interactive editor.
	// -----------------------------------------------------------------------
	env.AddFunction("connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("connect requires ref, point, ref, point")
		}
		idA, err := toModuleRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: first module: %w", err)
		}
		pointA, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: first point: %w", err)
		}
		idB, err := toModuleRef(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: second module: %w", err)
		}
		pointB, err := toKeywordString(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: second point: %w", err)
		}

		c, err := mg.Habitat.AddConnection(idA, pointA, idB, pointB)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: %w", err)
		}
		return &sexpConnRef{id: c.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (auto-connect ref)
	//
	// Connects the module to its closest valid neighbor, or returns nil when
	// nothing is in range.
	// -----------------------------------------------------------------------
	env.AddFunction("auto_connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("auto-connect requires a module reference")
		}
		id, err := toModuleRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("auto-connect: %w", err)
		}

		c, err := mg.AutoConnect(id)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("auto-connect: %w", err)
		}
		if c == nil {
			return zygo.SexpNull, nil
		}
		return &sexpConnRef{id: c.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (clone ref)
	// -----------------------------------------------------------------------
	env.AddFunction("clone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("clone requires a module reference")
		}
		id, err := toModuleRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clone: %w", err)
		}

		m, err := mg.Clone(id)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clone: %w", err)
		}
		return &sexpModuleRef{id: m.ID, name: m.Definition}, nil
	})

	// -----------------------------------------------------------------------
	// (grid 0.25)   snap grid in meters; 0 disables snapping
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("grid requires a size argument")
		}
		size, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: %w", err)
		}
		if size < 0 {
			return zygo.SexpNull, fmt.Errorf("grid: size must not be negative, got %v", size)
		}
		mg.Config.GridSize = size
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (select ref)
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("select requires a module reference")
		}
		id, err := toModuleRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		if err := mg.Habitat.Select(id); err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		return args[0], nil
	})
}
