package server

// ANSI escapes for the DEV route table.
const (
	ansiGreen   = "\033[32m"
	ansiBlue    = "\033[34m"
	ansiCyan    = "\033[36m"
	ansiYellow  = "\033[33m"
	ansiMagenta = "\033[35m"
	ansiGray    = "\033[90m"
	ansiReset   = "\033[0m"
)

func methodColour(method string) string {
	switch method {
	case "GET":
		return ansiGreen
	case "POST":
		return ansiBlue
	case "PUT":
		return ansiCyan
	case "PATCH":
		return ansiMagenta
	case "DELETE":
		return ansiYellow
	default:
		return ansiGray
	}
}
