package core

import "go.trai.ch/zerr"

var (
	// ErrCachedConfigMissing is returned when the production server starts without a cache file.
	ErrCachedConfigMissing = zerr.New("cached vite config not found: run the production build first")

	// ErrCachedConfigInvalid is returned when the cache file is not valid JSON.
	ErrCachedConfigInvalid = zerr.New("cached vite config is not valid JSON")

	// ErrNotBridgeConfig is returned when the cache file lacks the fastify record.
	ErrNotBridgeConfig = zerr.New("cached vite config was not written by a production build")

	// ErrClientOutDirMissing is returned when no client pass has been recorded.
	ErrClientOutDirMissing = zerr.New("cached vite config has no client out dir")

	ErrMissingOutDir = zerr.New("missing out dir")

	ErrIndexHTMLMissing = zerr.New("index.html not found in client out dir")
)
