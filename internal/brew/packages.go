package brew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// brewInfoOutput represents the structure of `brew info --json=v2` output
type brewInfoOutput struct {
	Formulae []brewFormulaInfo `json:"formulae"`
}

// brewFormulaInfo represents detailed formula information
type brewFormulaInfo struct {
	Name      string             `json:"name"`
	FullName  string             `json:"full_name"`
	Tap       string             `json:"tap"`
	KegOnly   bool               `json:"keg_only"`
	Options   []brewOption       `json:"options"`
	Installed []brewInstalledKeg `json:"installed"`
	LinkedKeg string             `json:"linked_keg,omitempty"`
}

type brewOption struct {
	Option      string `json:"option"`
	Description string `json:"description"`
}

// brewInstalledKeg is one entry of a formula's "installed" array; it mirrors
// the install receipt.
type brewInstalledKeg struct {
	Version          string   `json:"version"`
	UsedOptions      []string `json:"used_options"`
	BuiltAsBottle    bool     `json:"built_as_bottle"`
	PouredFromBottle bool     `json:"poured_from_bottle"`
}

// unknownFormulaMarkers are the stderr fragments brew prints for names it
// cannot resolve.
var unknownFormulaMarkers = []string{
	"No available formula",
	"No formulae or casks found",
	"No formulae found",
}

// Formula looks up one formula by bare or tap-qualified name.
func (c *Client) Formula(ctx context.Context, name string) (*Formula, error) {
	out, err := c.command(ctx, "info", "--json=v2", "--formula", name).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := string(exitErr.Stderr)
			for _, marker := range unknownFormulaMarkers {
				if strings.Contains(stderr, marker) {
					return nil, fmt.Errorf("%w with the name %q", ErrUnknownPackage, name)
				}
			}
			return nil, fmt.Errorf("brew info failed for %s: %w (stderr: %s)", name, err, strings.TrimSpace(stderr))
		}
		return nil, fmt.Errorf("brew info failed for %s: %w", name, err)
	}

	prefix, err := c.Prefix(ctx)
	if err != nil {
		return nil, err
	}

	formulae, err := parseFormulaInfo(out, prefix)
	if err != nil {
		return nil, err
	}
	if len(formulae) == 0 {
		return nil, fmt.Errorf("%w with the name %q", ErrUnknownPackage, name)
	}
	return formulae[0], nil
}

// Installed returns every installed formula in the order brew lists them.
func (c *Client) Installed(ctx context.Context) ([]*Formula, error) {
	out, err := c.output(ctx, "info", "--json=v2", "--installed")
	if err != nil {
		return nil, err
	}

	prefix, err := c.Prefix(ctx)
	if err != nil {
		return nil, err
	}

	return parseFormulaInfo(out, prefix)
}

// parseFormulaInfo converts `brew info --json=v2` output into formulae
// rooted at prefix.
func parseFormulaInfo(data []byte, prefix string) ([]*Formula, error) {
	var info brewInfoOutput
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse brew info output: %w", err)
	}

	formulae := make([]*Formula, 0, len(info.Formulae))
	for _, fi := range info.Formulae {
		declared := make([]string, 0, len(fi.Options))
		for _, opt := range fi.Options {
			declared = append(declared, opt.Option)
		}

		f := &Formula{
			Name:            fi.Name,
			FullName:        fi.FullName,
			Tap:             fi.Tap,
			OptPrefix:       filepath.Join(prefix, "opt", fi.Name),
			KegOnly:         fi.KegOnly,
			Installed:       len(fi.Installed) > 0,
			DeclaredOptions: NewOptions(declared...),
		}
		if f.FullName == "" {
			f.FullName = f.Name
		}

		if keg := currentKeg(fi); keg != nil {
			f.Receipt = &Receipt{
				Version:          keg.Version,
				UsedOptions:      NewOptions(keg.UsedOptions...),
				BuiltAsBottle:    keg.BuiltAsBottle,
				PouredFromBottle: keg.PouredFromBottle,
			}
		}

		formulae = append(formulae, f)
	}

	return formulae, nil
}

// currentKeg picks the linked keg's receipt, falling back to the newest
// installed version.
func currentKeg(fi brewFormulaInfo) *brewInstalledKeg {
	if len(fi.Installed) == 0 {
		return nil
	}
	for i := range fi.Installed {
		if fi.Installed[i].Version == fi.LinkedKeg {
			return &fi.Installed[i]
		}
	}
	return &fi.Installed[len(fi.Installed)-1]
}
