package brew

// CoreTap is the default formula repository. Formulae from it are exported
// under their bare name.
const CoreTap = "homebrew/core"

// Formula is a package definition as reported by the Homebrew registry,
// together with its installed state.
type Formula struct {
	Name      string
	FullName  string // "user/repo/name" for tapped formulae, Name otherwise
	Tap       string // e.g., "homebrew/core", "user/tap"
	OptPrefix string // stable <prefix>/opt/<name> path
	KegOnly   bool
	Installed bool

	// DeclaredOptions are the build flags the current definition recognizes.
	DeclaredOptions Options

	// Receipt describes the last install; nil when not installed.
	Receipt *Receipt
}

// Receipt is the install metadata Homebrew records alongside a keg.
type Receipt struct {
	Version          string
	UsedOptions      Options
	BuiltAsBottle    bool
	PouredFromBottle bool
}

// IsCoreTap reports whether the formula comes from the default repository.
func (f *Formula) IsCoreTap() bool {
	return f.Tap == "" || f.Tap == CoreTap
}

// RecordedOptions returns the options stored with the last install.
func (f *Formula) RecordedOptions() Options {
	if f.Receipt == nil {
		return Options{}
	}
	return f.Receipt.UsedOptions
}

// BuildUsedOptions returns the recorded options the current definition
// still declares.
func (f *Formula) BuildUsedOptions() Options {
	return f.RecordedOptions().Intersect(f.DeclaredOptions)
}

// BuiltAsBottle reports whether the last install was built with
// --build-bottle.
func (f *Formula) BuiltAsBottle() bool {
	return f.Receipt != nil && f.Receipt.BuiltAsBottle
}

// InstallRequest is everything the installation engine needs for one
// formula.
type InstallRequest struct {
	Formula         *Formula
	Options         Options
	BuildBottle     bool
	BuildFromSource bool
	ForceBottle     bool
	Verbose         bool
	Debug           bool
}

// Args renders the request as brew install arguments.
func (r InstallRequest) Args() []string {
	args := []string{"install"}
	if r.BuildBottle {
		args = append(args, "--build-bottle")
	}
	if r.BuildFromSource {
		args = append(args, "--build-from-source")
	}
	if r.ForceBottle {
		args = append(args, "--force-bottle")
	}
	if r.Verbose {
		args = append(args, "--verbose")
	}
	if r.Debug {
		args = append(args, "--debug")
	}
	args = append(args, r.Options.Flags()...)
	return append(args, r.Formula.FullName)
}
