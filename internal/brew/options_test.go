package brew

import (
	"encoding/json"
	"testing"
)

func TestNewOptions_Normalizes(t *testing.T) {
	o := NewOptions("with-x", "--with-a", "  --with-x ", "", "--", "--with-a")

	want := []string{"--with-a", "--with-x"}
	got := o.Flags()
	if len(got) != len(want) {
		t.Fatalf("Flags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Flags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOptions_Union(t *testing.T) {
	a := NewOptions("--with-a", "--with-b")
	b := NewOptions("--with-b", "--with-c")

	u := a.Union(b)
	if u.Len() != 3 {
		t.Errorf("Union() has %d flags, want 3", u.Len())
	}
	if !u.Equal(b.Union(a)) {
		t.Error("Union() should be commutative")
	}
	if !a.Union(a).Equal(a) {
		t.Error("Union() with itself should be a no-op")
	}
	if !a.Union(Options{}).Equal(a) {
		t.Error("Union() with empty should be a no-op")
	}
	// operands are untouched
	if a.Len() != 2 || b.Len() != 2 {
		t.Error("Union() modified its operands")
	}
}

func TestOptions_Intersect(t *testing.T) {
	a := NewOptions("--with-a", "--with-b")
	b := NewOptions("--with-b", "--with-c")

	got := a.Intersect(b)
	if !got.Equal(NewOptions("--with-b")) {
		t.Errorf("Intersect() = %v, want [--with-b]", got.Flags())
	}
	if !a.Intersect(Options{}).Empty() {
		t.Error("Intersect() with empty should be empty")
	}
}

func TestOptions_Contains(t *testing.T) {
	o := NewOptions("--with-a")
	if !o.Contains("--with-a") || !o.Contains("with-a") {
		t.Error("Contains() should match with or without the dash prefix")
	}
	if o.Contains("--with-b") {
		t.Error("Contains() matched a missing flag")
	}
}

func TestOptions_FlagsIsCopy(t *testing.T) {
	o := NewOptions("--with-a")
	flags := o.Flags()
	flags[0] = "--mutated"
	if !o.Contains("--with-a") {
		t.Error("mutating Flags() result changed the set")
	}
}

func TestOptions_String(t *testing.T) {
	if got := NewOptions("--b", "--a").String(); got != "--a, --b" {
		t.Errorf("String() = %q, want %q", got, "--a, --b")
	}
	if got := (Options{}).String(); got != "" {
		t.Errorf("empty String() = %q, want empty", got)
	}
}

func TestOptions_JSON(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"empty", Options{}, `[]`},
		{"flags", NewOptions("--with-b", "--with-a"), `["--with-a","--with-b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.opts)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}

	var o Options
	if err := json.Unmarshal([]byte(`null`), &o); err != nil || !o.Empty() {
		t.Errorf("Unmarshal(null) = %v, %v; want empty set", o.Flags(), err)
	}
	if err := json.Unmarshal([]byte(`["with-x","--with-x"]`), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !o.Equal(NewOptions("--with-x")) {
		t.Errorf("Unmarshal() = %v, want [--with-x]", o.Flags())
	}
	if err := json.Unmarshal([]byte(`"--with-x"`), &o); err == nil {
		t.Error("Unmarshal() of a string should fail")
	}
}
