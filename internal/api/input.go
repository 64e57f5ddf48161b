package api

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadInput collects raw URL text for a command. Positional args win, then
// file ("-" reads stdin), then stdin when it is not a terminal.
func ReadInput(args []string, file string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}

	if file == "-" {
		return readAll(stdin)
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}

	if stdin == nil {
		return "", nil
	}
	info, err := stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	return readAll(stdin)
}

func readAll(f *os.File) (string, error) {
	if f == nil {
		return "", nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
