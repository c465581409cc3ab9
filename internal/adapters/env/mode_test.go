package env

import (
	"testing"

	"github.com/3-lines-studio/vitebridge/internal/core"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     core.Mode
	}{
		{name: "dev mode with 1", envValue: "1", want: core.ModeDev},
		{name: "prod mode with empty", envValue: "", want: core.ModeProd},
		{name: "prod mode with 0", envValue: "0", want: core.ModeProd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DevEnv, tt.envValue)

			if got := DetectMode(); got != tt.want {
				t.Errorf("DetectMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
