package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdinIsTerminal reports whether passwords can be read without echo.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// readLine prints prompt and reads one trimmed line from the command's input.
func readLine(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo when stdin is a terminal and
// falls back to a plain line otherwise (pipes, tests).
func readPassword(w io.Writer, prompt string) (string, error) {
	if !stdinIsTerminal() {
		return readLine(w, prompt)
	}

	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// confirm asks a yes/no question; anything but y/yes means no.
func confirm(w io.Writer, prompt string) (bool, error) {
	response, err := readLine(w, prompt+" [y/N]: ")
	if err != nil {
		return false, err
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes", nil
}
