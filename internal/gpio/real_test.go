//go:build linux

package gpio

import (
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestReleaseBiasHoldsInactiveLevel(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		want      gpiocdev.LineBias
	}{
		{"active low pulls up", true, gpiocdev.WithPullUp},
		{"active high pulls down", false, gpiocdev.WithPullDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := releaseBias(tt.activeLow); got != tt.want {
				t.Errorf("releaseBias(%v) = %v, want %v", tt.activeLow, got, tt.want)
			}
		})
	}
}
