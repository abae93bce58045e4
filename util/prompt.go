package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func readLine() string {
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(response)
}

// PromptString asks on stdin, returning def on an empty answer.
func PromptString(prompt string, def string) string {
	fmt.Printf("%s (%s): ", prompt, def)
	if response := readLine(); response != "" {
		return response
	}
	return def
}

// PromptYN asks a yes/no question, returning def on an empty answer.
func PromptYN(prompt string, def bool) bool {
	if def {
		fmt.Printf("%s (Y/n): ", prompt)
	} else {
		fmt.Printf("%s (y/N): ", prompt)
	}

	response := readLine()
	if response == "" {
		return def
	}
	return strings.EqualFold(response, "y")
}
