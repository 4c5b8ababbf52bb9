package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForQuestion prompts the user to enter a question or research prompt
func PromptForQuestion() (string, error) {
	var message string
	prompt := &survey.Input{
		Message: "Enter your question or research prompt:",
		Help:    "Short factual questions get a one-sentence answer; research requests produce a full report",
	}

	err := survey.AskOne(prompt, &message, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if len(str) == 0 {
			return fmt.Errorf("prompt cannot be empty")
		}
		return nil
	}))

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(message), nil
}
