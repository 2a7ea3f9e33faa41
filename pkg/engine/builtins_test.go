package engine

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(connect lq :north hub :south)`,
			expect: `(connect lq "__kw_north" hub "__kw_south")`,
		},
		{
			name:   "keyword with value",
			input:  `(module "airlock" :rotate 90)`,
			expect: `(module "airlock" "__kw_rotate" 90)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(auto-connect lq)`,
			expect: `(auto_connect lq)`,
		},
		{
			name:   "definition ID in string preserved",
			input:  `(module "central-hub")`,
			expect: `(module "central-hub")`,
		},
		{
			name:   "negative number untouched",
			input:  `(vec3 0 0 -4.3)`,
			expect: `(vec3 0 0 -4.3)`,
		},
		{
			name:   "subtraction untouched",
			input:  `(- 5 3)`,
			expect: `(- 5 3)`,
		},
		{
			name:   "semicolon comment becomes slashes",
			input:  ";; dock here\n(grid 1)",
			expect: "// dock here\n(grid 1)",
		},
		{
			name:   "keyword inside comment converted harmlessly",
			input:  "; note :at is optional\n",
			expect: "// note :at is optional\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestPreprocessEscapedString(t *testing.T) {
	in := `(module "quo\"te-d")`
	if got := preprocessSource(in); got != in {
		t.Errorf("preprocessSource(%q) = %q", in, got)
	}
}

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "laboratory"},
		&zygo.SexpStr{S: kwPrefix + "rotate"},
		&zygo.SexpInt{Val: 90},
		&zygo.SexpStr{S: kwPrefix + "at"},
		&sexpVec3{vec: geom.V(1, 2, 3)},
	}

	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		t.Fatalf("positional count = %d, want 1", len(pa.positional))
	}
	if _, ok := pa.kw["rotate"]; !ok {
		t.Error("missing :rotate")
	}
	v, ok := pa.kw["at"]
	if !ok {
		t.Fatal("missing :at")
	}
	vec, err := toVec3(v)
	if err != nil {
		t.Fatal(err)
	}
	if vec != geom.V(1, 2, 3) {
		t.Errorf("vec = %v", vec)
	}
}

func TestParseArgsTrailingKeyword(t *testing.T) {
	pa := parseArgs([]zygo.Sexp{&zygo.SexpStr{S: kwPrefix + "flag"}})
	if v, ok := pa.kw["flag"]; !ok || v != zygo.SexpNull {
		t.Error("trailing keyword should map to null")
	}
}

func TestToKeywordString(t *testing.T) {
	if got, err := toKeywordString(&zygo.SexpStr{S: kwPrefix + "north"}); err != nil || got != "north" {
		t.Errorf("got %q, %v", got, err)
	}
	if got, err := toKeywordString(&zygo.SexpStr{S: "north"}); err != nil || got != "north" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := toKeywordString(&zygo.SexpInt{Val: 1}); err == nil {
		t.Error("expected error for non-string")
	}
}

func TestToFloat64(t *testing.T) {
	if f, err := toFloat64(&zygo.SexpInt{Val: 7}); err != nil || f != 7 {
		t.Errorf("int: %v, %v", f, err)
	}
	if f, err := toFloat64(&zygo.SexpFloat{Val: 2.5}); err != nil || f != 2.5 {
		t.Errorf("float: %v, %v", f, err)
	}
	if _, err := toFloat64(&zygo.SexpStr{S: "nope"}); err == nil {
		t.Error("expected error for string")
	}
}

func TestToModuleRef(t *testing.T) {
	ref := &sexpModuleRef{id: "abc", name: "airlock"}
	id, err := toModuleRef(ref)
	if err != nil || id != "abc" {
		t.Errorf("got %q, %v", id, err)
	}
	if _, err := toModuleRef(&zygo.SexpStr{S: "abc"}); err == nil {
		t.Error("expected error for plain string")
	}
}
