package usecase

import (
	"context"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
)

// Bundler runs one build pass of the frontend build tool.
//
//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks
type Bundler interface {
	Build(ctx context.Context, resolved core.ResolvedConfig) error
}

type FileSystem = fs.FileSystem
