//go:build !windows

package console

import (
	"os"
	"strings"
)

// Blue backgrounds in the ANSI 16-color palette: 4 and bright 12.
var blueBackgrounds = map[string]bool{"4": true, "12": true}

// IsBlueBackground reports whether the terminal background color is blue,
// based on the COLORFGBG convention (last field is the background).
func IsBlueBackground() bool {
	raw := os.Getenv("COLORFGBG")
	if raw == "" {
		return false
	}
	fields := strings.Split(raw, ";")
	bg := strings.TrimSpace(fields[len(fields)-1])
	return blueBackgrounds[bg]
}
