package core

import (
	"bytes"
	"text/template"
)

// HydrationEntry describes the client bootstrap that hydrates server-rendered
// markup. The app factory must export createApp returning { app, router }.
// The zero value waits for the router before mounting.
type HydrationEntry struct {
	AppImport     string
	HydrateImport string
	MountSelector string
	// MountImmediately skips waiting for router.isReady(), for apps
	// without async route components.
	MountImmediately bool
}

func DefaultHydrationEntry() HydrationEntry {
	return HydrationEntry{
		AppImport:     "../main",
		HydrateImport: "fastify-vite/client/vue",
		MountSelector: "#app",
	}
}

var hydrationTemplate = template.Must(template.New("hydration").Parse(`import { createApp } from {{printf "%q" .AppImport}}
import { hydrate } from {{printf "%q" .HydrateImport}}
const { app, router } = createApp()

hydrate(app)
{{if not .MountImmediately}}
// Wait until router is ready before mounting to ensure hydration match
router.isReady().then(() => app.mount({{printf "%q" .MountSelector}}))
{{else}}
app.mount({{printf "%q" .MountSelector}})
{{end -}}
`))

func RenderHydrationEntry(entry HydrationEntry) (string, error) {
	defaults := DefaultHydrationEntry()
	if entry.AppImport == "" {
		entry.AppImport = defaults.AppImport
	}
	if entry.HydrateImport == "" {
		entry.HydrateImport = defaults.HydrateImport
	}
	if entry.MountSelector == "" {
		entry.MountSelector = defaults.MountSelector
	}

	var buf bytes.Buffer
	if err := hydrationTemplate.Execute(&buf, entry); err != nil {
		return "", err
	}
	return buf.String(), nil
}
