package env

import (
	"os"

	"github.com/3-lines-studio/vitebridge/internal/core"
)

const DevEnv = "VITEBRIDGE_DEV"

func DetectMode() core.Mode {
	if os.Getenv(DevEnv) == "1" {
		return core.ModeDev
	}
	return core.ModeProd
}
