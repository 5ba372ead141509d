package steps

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/scaffold/manifest"
)

// Reader interface is used from reading user input.
type Reader interface {
	readLine() (string, error)
}

// consoleReader implements reading from console.
type consoleReader struct {
	stdinReader *bufio.Reader
}

// readLine reads line from console. New-line symbol is trimmed.
func (consoleReader consoleReader) readLine() (string, error) {
	input, err := consoleReader.stdinReader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error getting user input: %s", err)
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// NewConsoleReader create new console reader.
func NewConsoleReader() consoleReader {
	return consoleReader{bufio.NewReader(os.Stdin)}
}

// CollectVarsFromUser represents a step requesting manifest variables from a user.
type CollectVarsFromUser struct {
	// Reader is used to get user input.
	Reader Reader
}

// knownValue returns the value of a manifest variable already set in command
// line or in the schema data.
func knownValue(templateCtx *TemplateCtx, name string) (string, bool) {
	if value, found := templateCtx.CliVars[name]; found {
		return fmt.Sprint(value), true
	}
	if value, found := templateCtx.Vars[name]; found {
		return fmt.Sprint(value), true
	}
	return "", false
}

func matchRe(varInfo manifest.UserPrompt, value string) (bool, error) {
	if varInfo.Re == "" {
		return true, nil
	}
	matched, err := regexp.MatchString(varInfo.Re, value)
	if err != nil {
		return false, fmt.Errorf("failed to validate user input: %s", err)
	}
	return matched, nil
}

// Run collects template variables from user in interactive mode.
func (collectVars CollectVarsFromUser) Run(ctx *scaffold_ctx.ScaffoldCtx,
	templateCtx *TemplateCtx) error {
	if !templateCtx.IsManifestPresent {
		return nil
	}

	for _, varInfo := range templateCtx.Manifest.Vars {
		if existingValue, found := knownValue(templateCtx, varInfo.Name); found {
			matched, err := matchRe(varInfo, existingValue)
			if err != nil {
				return err
			}
			if matched {
				continue
			}
			if ctx.SilentMode {
				return fmt.Errorf("invalid format of %s variable", varInfo.Name)
			}
			fmt.Printf("Invalid format of %s variable.\n", varInfo.Name)
		}

		input, err := collectVars.requestValue(ctx, varInfo)
		if err != nil {
			return err
		}
		templateCtx.CliVars[varInfo.Name] = input
	}

	return nil
}

// requestValue asks a user for the variable value until it is valid.
func (collectVars CollectVarsFromUser) requestValue(ctx *scaffold_ctx.ScaffoldCtx,
	varInfo manifest.UserPrompt) (string, error) {
	for {
		var input string
		if ctx.SilentMode {
			if varInfo.Default == "" {
				return "", fmt.Errorf("%s variable value is not set", varInfo.Name)
			}
			input = varInfo.Default
		} else {
			if varInfo.Default == "" {
				fmt.Printf("%s: ", varInfo.Prompt)
			} else {
				fmt.Printf("%s (default: %s): ", varInfo.Prompt, varInfo.Default)
			}
			var err error
			if input, err = collectVars.Reader.readLine(); err != nil {
				return "", fmt.Errorf("error reading user input: %s", err)
			}
		}

		if input == "" {
			if varInfo.Default == "" {
				fmt.Println("Please enter a value.")
				continue
			}
			input = varInfo.Default
		}

		matched, err := matchRe(varInfo, input)
		if err != nil {
			return "", err
		}
		if matched {
			return input, nil
		}
		if ctx.SilentMode {
			return "", fmt.Errorf("invalid format of %s variable", varInfo.Name)
		}
		fmt.Println("Invalid format. Try again.")
	}
}
