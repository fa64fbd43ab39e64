// Package banner draws the startup title banner.
package banner

import (
	"fmt"
	"os"
	"strings"

	"github.com/surycat/pkgship/shared/ansi"
	"github.com/surycat/pkgship/shared/console"
	"golang.org/x/term"
)

type bannerColor int

const (
	bannerAmber bannerColor = iota
	bannerTeal
	bannerViolet
	bannerCrimson
)

var bannerTitleColors = []string{
	"\x1b[38;2;255;153;0m",  // Amber
	"\x1b[38;2;0;175;170m",  // Teal
	"\x1b[38;2;145;70;255m", // Violet
	"\x1b[38;2;229;9;20m",   // Crimson
}

var bannerTitleColorNames = []string{
	"Amber",
	"Teal",
	"Violet",
	"Crimson",
}

const (
	bannerTitleColorDefault        = bannerAmber
	bannerTitleColorBlueBackground = bannerAmber
	bannerTitleColorEnv            = "PKGSHIP_BANNER_COLOR"
)

var titleLines = []string{
	" ██████╗  ██╗  ██╗  ██████╗  ███████╗ ██╗  ██╗ ██╗ ██████╗ ",
	" ██╔══██╗ ██║ ██╔╝ ██╔════╝  ██╔════╝ ██║  ██║ ██║ ██╔══██╗",
	" ██████╔╝ █████╔╝  ██║  ███╗ ███████╗ ███████║ ██║ ██████╔╝",
	" ██╔═══╝  ██╔═██╗  ██║   ██║ ╚════██║ ██╔══██║ ██║ ██╔═══╝ ",
	" ██║      ██║  ██╗ ╚██████╔╝ ███████║ ██║  ██║ ██║ ██║     ",
	" ╚═╝      ╚═╝  ╚═╝  ╚═════╝  ╚══════╝ ╚═╝  ╚═╝ ╚═╝ ╚═╝     ",
}

func printCenteredLines(lines []string, width int) {
	for _, line := range lines {
		pad := 0

		if width > len(line) {
			pad = (width - len(line)) / 2
		}

		if pad > 0 {
			fmt.Print(strings.Repeat(" ", pad))
		}

		fmt.Println(line)
	}
}

func bannerTitleColor() bannerColor {
	if color, ok := bannerTitleColorFromEnv(); ok {
		return color
	}

	if console.IsBlueBackground() {
		return bannerTitleColorBlueBackground
	}

	return bannerTitleColorDefault
}

func bannerTitleColorFromEnv() (bannerColor, bool) {
	raw := strings.TrimSpace(os.Getenv(bannerTitleColorEnv))

	if raw == "" {
		return 0, false
	}

	for idx, color := range bannerTitleColors {
		if strings.EqualFold(raw, bannerTitleColorNames[idx]) || raw == color {
			return bannerColor(idx), true
		}
	}

	return 0, false
}

// DrawBannerTitle prints the application title banner to stdout.
func DrawBannerTitle() {
	ansi.EnableANSI()

	width := 80

	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}

	fmt.Print(bannerTitleColors[bannerTitleColor()])
	printCenteredLines(titleLines, width)
	fmt.Print("\x1b[0m")
}
