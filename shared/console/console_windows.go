//go:build windows

package console

import (
	"os"

	"golang.org/x/sys/windows"
)

const backgroundBlue = 0x0010

// IsBlueBackground reports whether the console background color is blue.
func IsBlueBackground() bool {
	var info windows.ConsoleScreenBufferInfo
	err := windows.GetConsoleScreenBufferInfo(windows.Handle(os.Stdout.Fd()), &info)
	return err == nil && info.Attributes&backgroundBlue != 0
}
