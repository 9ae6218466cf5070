package migrate

import (
	"regexp"
	"strings"
)

// tapRepoPrefix is the conventional prefix of tap repository names on
// GitHub ("user/homebrew-foo" is tapped as "user/foo").
const tapRepoPrefix = "homebrew-"

var qualifiedPattern = regexp.MustCompile(`^([^/]+)/([^/]+)/([^/]+)$`)

// QualifiedName is a parsed manifest key. TapUser and TapRepo are both
// empty for formulae from the default repository.
type QualifiedName struct {
	TapUser string
	TapRepo string
	Name    string
}

// Resolve splits key into an optional tap and a bare formula name. Keys
// that are not exactly three non-empty segments resolve to a bare name
// equal to the key.
func Resolve(key string) QualifiedName {
	parts := qualifiedPattern.FindStringSubmatch(key)
	if parts == nil {
		return QualifiedName{Name: key}
	}
	return QualifiedName{
		TapUser: parts[1],
		TapRepo: StripTapPrefix(parts[2]),
		Name:    parts[3],
	}
}

// StripTapPrefix removes a leading "homebrew-" from a tap repository name.
// A repo named exactly "homebrew-" is left alone.
func StripTapPrefix(repo string) string {
	if stripped := strings.TrimPrefix(repo, tapRepoPrefix); stripped != "" {
		return stripped
	}
	return repo
}

// HasTap reports whether the name carries tap qualifiers.
func (q QualifiedName) HasTap() bool {
	return q.TapUser != "" && q.TapRepo != ""
}

// Tap returns "user/repo", or "" without qualifiers.
func (q QualifiedName) Tap() string {
	if !q.HasTap() {
		return ""
	}
	return q.TapUser + "/" + q.TapRepo
}

// FullName is the short display form used for registry lookups:
// "user/repo/name" with the repo prefix stripped, or the bare name.
func (q QualifiedName) FullName() string {
	if !q.HasTap() {
		return q.Name
	}
	return q.Tap() + "/" + q.Name
}

func (q QualifiedName) String() string {
	return q.FullName()
}
