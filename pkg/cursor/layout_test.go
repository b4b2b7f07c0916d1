package cursor

import (
	"testing"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

func TestLayoutRoundTrip(t *testing.T) {
	g := newGraph()
	a := add(t, g, "A", 1)
	b := add(t, g, "B", 4)
	_ = g.SetReference(b, a)
	_ = g.SetColor(a, Color{R: 255, A: 128})

	l := g.Layout("bench")
	if l.Name != "bench" || len(l.Cursors) != 2 {
		t.Fatalf("layout = %+v", l)
	}
	if l.Cursors[1].Reference != a.ID() || l.Cursors[0].Color != "#ff000080" {
		t.Errorf("records = %+v", l.Cursors)
	}

	h := newGraph()
	if err := h.Restore(l); err != nil {
		t.Fatal(err)
	}
	ra, rb := h.ByName("A"), h.ByName("B")
	if ra == nil || rb == nil || rb.Reference() != ra {
		t.Fatalf("restored references wrong")
	}
	if ra.ID() != a.ID() || rb.Delta() != -3 || rb.Position() != 4 {
		t.Errorf("restored B = pos %g delta %g", rb.Position(), rb.Delta())
	}
	_ = h.SetPosition(ra, 0)
	if rb.Position() != 3 {
		t.Errorf("restored coupling broken: B at %g", rb.Position())
	}
}

func TestRestoreDerivesPositionsAndResolvesNames(t *testing.T) {
	g := newGraph()
	err := g.Restore(Layout{Cursors: []Record{
		{Name: "child", Position: 99, Delta: 2, Reference: "root"},
		{Name: "root", Position: 10},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if c := g.ByName("child"); c.Position() != 8 {
		t.Errorf("child at %g, want 8", c.Position())
	}
}

func TestRestoreRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		code    errors.Code
	}{
		{"cycle", []Record{{Name: "a", Reference: "b"}, {Name: "b", Reference: "a"}}, errors.ErrCodeReferenceCycle},
		{"self", []Record{{Name: "a", Reference: "a"}}, errors.ErrCodeReferenceCycle},
		{"dangling", []Record{{Name: "a", Reference: "ghost"}}, errors.ErrCodeCursorNotFound},
		{"duplicate name", []Record{{Name: "a"}, {Name: "a"}}, errors.ErrCodeDuplicateCursor},
		{"bad colour", []Record{{Name: "a", Color: "chartreuse-ish"}}, errors.ErrCodeInvalidCursor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph()
			keep := add(t, g, "keep", 1)
			if err := g.Restore(Layout{Cursors: tt.records}); !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if g.Len() != 1 || !g.Contains(keep) {
				t.Error("failed restore changed the graph")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#0000ff", Blue, true},
		{"blue", Blue, true},
		{"#f00", Color{255, 0, 0, 255}, true},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, true},
		{"  #FFFFFF ", Color{255, 255, 255, 255}, true},
		{"0000ff", Color{}, false},
		{"#12345", Color{}, false},
		{"#gggggg", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if tt.ok && got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
	if s := (Color{1, 2, 3, 255}).String(); s != "#010203" {
		t.Errorf("String() = %q", s)
	}
}
