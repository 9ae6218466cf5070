package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
)

func TestExportKey(t *testing.T) {
	tests := []struct {
		name string
		f    *brew.Formula
		want string
	}{
		{"core", &brew.Formula{Name: "wget", Tap: brew.CoreTap}, "wget"},
		{"no tap", &brew.Formula{Name: "wget"}, "wget"},
		{"tapped", &brew.Formula{Name: "tool", Tap: "acme/tools"}, "acme/tools/tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportKey(tt.f); got != tt.want {
				t.Errorf("ExportKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportEntry(t *testing.T) {
	f := &brew.Formula{
		Name:            "ffmpeg",
		DeclaredOptions: brew.NewOptions("--with-fdk-aac", "--with-x265"),
		Receipt: &brew.Receipt{
			UsedOptions:   brew.NewOptions("--with-fdk-aac", "--with-removed"),
			BuiltAsBottle: true,
		},
	}

	entry := ExportEntry(f)
	want := brew.NewOptions("--with-fdk-aac", "--with-removed")
	if !entry.Options.Equal(want) {
		t.Errorf("Options = %v, want %v", entry.Options.Flags(), want.Flags())
	}
	if !entry.BuildBottle {
		t.Error("BuildBottle should be true")
	}

	bare := ExportEntry(&brew.Formula{Name: "jq"})
	if !bare.Options.Empty() || bare.BuildBottle {
		t.Errorf("formula without receipt should export an empty entry, got %+v", bare)
	}
}

func TestExport_AllInstalled(t *testing.T) {
	registry := &fakeRegistry{installed: []*brew.Formula{
		{Name: "zlib", FullName: "zlib", Tap: brew.CoreTap, Installed: true},
		{Name: "tool", FullName: "acme/tools/tool", Tap: "acme/tools", Installed: true},
		{Name: "gone", FullName: "gone", Tap: brew.CoreTap},
	}}

	m, err := NewExporter(registry).Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "zlib" || keys[1] != "acme/tools/tool" {
		t.Errorf("keys = %v, want [zlib acme/tools/tool]", keys)
	}
}

func TestExport_Named(t *testing.T) {
	registry := &fakeRegistry{formulae: map[string]*brew.Formula{
		"git": {Name: "git", FullName: "git", Tap: brew.CoreTap, Installed: true},
		"vim": {Name: "vim", FullName: "vim", Tap: brew.CoreTap},
	}}
	exp := NewExporter(registry)

	m, err := exp.Export(context.Background(), []string{"git"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if _, ok := m.Get("git"); !ok || m.Len() != 1 {
		t.Errorf("manifest keys = %v, want [git]", m.Keys())
	}

	for _, name := range []string{"vim", "nope"} {
		if _, err := exp.Export(context.Background(), []string{name}); !errors.Is(err, brew.ErrUnknownPackage) {
			t.Errorf("Export(%s) error = %v, want ErrUnknownPackage", name, err)
		}
	}
}

func TestExport_RegistryError(t *testing.T) {
	registry := &fakeRegistry{err: errors.New("brew not found")}

	if _, err := NewExporter(registry).Export(context.Background(), nil); err == nil {
		t.Error("expected error from registry")
	}
}
