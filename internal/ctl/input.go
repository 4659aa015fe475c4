package ctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errEmptySecret = errors.New("empty secret")

// ReadSecret reads one secret. On a terminal it prompts on w and reads
// without echo; otherwise it reads the first line of in.
func ReadSecret(in io.Reader, fd int, w io.Writer) (string, error) {
	if isTerminal(fd) {
		if _, err := fmt.Fprint(w, "Enter secret: "); err != nil {
			return "", err
		}
		b, err := readPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		if len(b) == 0 {
			return "", errEmptySecret
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		if errors.Is(err, io.EOF) {
			return "", errEmptySecret
		}
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errEmptySecret
	}
	return line, nil
}
