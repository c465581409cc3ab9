package core

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestRenderHydrationEntry_Default(t *testing.T) {
	script, err := RenderHydrationEntry(DefaultHydrationEntry())
	if err != nil {
		t.Fatalf("RenderHydrationEntry() error = %v", err)
	}

	snaps.MatchSnapshot(t, script)
}

func TestRenderHydrationEntry_Ordering(t *testing.T) {
	script, err := RenderHydrationEntry(DefaultHydrationEntry())
	if err != nil {
		t.Fatalf("RenderHydrationEntry() error = %v", err)
	}

	hydrateAt := strings.Index(script, "hydrate(app)")
	readyAt := strings.Index(script, "router.isReady()")
	mountAt := strings.Index(script, "app.mount(")

	if hydrateAt < 0 || readyAt < 0 || mountAt < 0 {
		t.Fatalf("missing bootstrap calls in:\n%s", script)
	}
	if hydrateAt > readyAt {
		t.Error("hydrate must be attached before waiting for the router")
	}
	if readyAt > mountAt {
		t.Error("mount must be deferred until the router is ready")
	}
}

func TestRenderHydrationEntry_Options(t *testing.T) {
	tests := []struct {
		name     string
		entry    HydrationEntry
		contains []string
		excludes []string
	}{
		{
			name:  "zero value uses defaults and waits for the router",
			entry: HydrationEntry{},
			contains: []string{
				`import { createApp } from "../main"`,
				`import { hydrate } from "fastify-vite/client/vue"`,
				`router.isReady().then(() => app.mount("#app"))`,
			},
		},
		{
			name: "custom selector and imports",
			entry: HydrationEntry{
				AppImport:     "./app",
				HydrateImport: "@fastify/vue/client",
				MountSelector: "#root",
			},
			contains: []string{
				`from "./app"`,
				`from "@fastify/vue/client"`,
				`app.mount("#root")`,
			},
		},
		{
			name:     "immediate mount without router",
			entry:    HydrationEntry{MountImmediately: true},
			contains: []string{"hydrate(app)\n", `app.mount("#app")`},
			excludes: []string{"router.isReady"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := RenderHydrationEntry(tt.entry)
			if err != nil {
				t.Fatalf("RenderHydrationEntry() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(script, want) {
					t.Errorf("script missing %q:\n%s", want, script)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(script, unwanted) {
					t.Errorf("script should not contain %q:\n%s", unwanted, script)
				}
			}
		})
	}
}
