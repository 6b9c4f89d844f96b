package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// In and Out are where prompts read answers from and write questions to.
var (
	In  io.Reader = os.Stdin
	Out io.Writer = os.Stdout
)

func PromptString(prompt string, def string) string {
	fmt.Fprintf(Out, "%s (%s): ", prompt, def)

	response := readLine()
	if response == "" {
		return def
	}
	return response
}

func PromptYN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(Out, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(Out, "%s (y/N): ", prompt)
	}

	response := readLine()
	if response == "" {
		return def
	}
	return strings.ToLower(response) == "y"
}

var (
	reader    *bufio.Reader
	readerFor io.Reader
)

// readLine returns the next trimmed line of In. A closed or failing input
// reads as an empty answer. The buffered reader survives between prompts
// so answers typed ahead are not lost.
func readLine() string {
	if reader == nil || readerFor != In {
		reader, readerFor = bufio.NewReader(In), In
	}
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}
	return strings.TrimSpace(response)
}
