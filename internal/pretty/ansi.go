// ANSI escape codes
package pretty

var colorEnabled = true

// SetColorEnabled controls whether ANSI color codes are output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

const resetCode string = "\x1b[0m"
const greenCode string = "\x1b[32m"
const redCode string = "\x1b[31m"
const cyanCode string = "\x1b[36m"

func code(c string) string {
	if colorEnabled {
		return c
	}
	return ""
}

func Reset() string {
	return code(resetCode)
}

func Green() string {
	return code(greenCode)
}

func Red() string {
	return code(redCode)
}

func Cyan() string {
	return code(cyanCode)
}

// Always output, since it is only written to terminals
const EraseLine string = "\x1b[2K"
