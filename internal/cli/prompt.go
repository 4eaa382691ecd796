package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// PromptForProductName prompts the user interactively for a product name.
func PromptForProductName() string {
	fmt.Print("Product name: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read input")
		return ""
	}

	return strings.TrimSpace(input)
}

// PromptForAttributes prompts for key=value attribute pairs, one per line,
// until an empty line is entered.
func PromptForAttributes() []string {
	fmt.Println("Attributes as key=value, one per line (empty line to finish):")

	var attrs []string
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read attribute input")
			return attrs
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return attrs
		}
		if !strings.Contains(input, "=") {
			fmt.Println("Expected key=value, try again")
			continue
		}
		attrs = append(attrs, input)
	}
}
