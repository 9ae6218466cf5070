package brew

import (
	"encoding/json"
	"sort"
	"strings"
)

// Options is an immutable set of build flags such as "--with-x".
// The zero value is the empty set.
type Options struct {
	flags []string // sorted, unique
}

// NewOptions builds a set from flag strings. Bare names get a "--" prefix,
// blanks are dropped and duplicates collapse.
func NewOptions(flags ...string) Options {
	seen := make(map[string]struct{}, len(flags))
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		f = normalizeFlag(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return Options{flags: out}
}

func normalizeFlag(f string) string {
	f = strings.TrimSpace(f)
	if f == "" || f == "-" || f == "--" {
		return ""
	}
	if !strings.HasPrefix(f, "-") {
		return "--" + f
	}
	return f
}

// Union returns the flags present in either set.
func (o Options) Union(other Options) Options {
	all := make([]string, 0, len(o.flags)+len(other.flags))
	all = append(all, o.flags...)
	all = append(all, other.flags...)
	return NewOptions(all...)
}

// Intersect returns the flags present in both sets.
func (o Options) Intersect(other Options) Options {
	var both []string
	for _, f := range o.flags {
		if other.Contains(f) {
			both = append(both, f)
		}
	}
	return NewOptions(both...)
}

// Contains reports whether flag is in the set.
func (o Options) Contains(flag string) bool {
	flag = normalizeFlag(flag)
	i := sort.SearchStrings(o.flags, flag)
	return i < len(o.flags) && o.flags[i] == flag
}

// Len returns the number of flags.
func (o Options) Len() int {
	return len(o.flags)
}

// Empty reports whether the set has no flags.
func (o Options) Empty() bool {
	return len(o.flags) == 0
}

// Flags returns a copy of the flags, sorted.
func (o Options) Flags() []string {
	out := make([]string, len(o.flags))
	copy(out, o.flags)
	return out
}

// Equal reports whether both sets hold the same flags.
func (o Options) Equal(other Options) bool {
	if len(o.flags) != len(other.flags) {
		return false
	}
	for i := range o.flags {
		if o.flags[i] != other.flags[i] {
			return false
		}
	}
	return true
}

// String joins the flags with ", " for notices.
func (o Options) String() string {
	return strings.Join(o.flags, ", ")
}

// MarshalJSON encodes the set as an array; the empty set is "[]", never null.
func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Flags())
}

// UnmarshalJSON decodes an array of flag strings. null decodes as empty.
func (o *Options) UnmarshalJSON(data []byte) error {
	var flags []string
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	*o = NewOptions(flags...)
	return nil
}
