package cmdhelper

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question on the terminal. An aborted prompt answers
// no, an interrupted one returns promptui.ErrInterrupt.
func Confirm(label string) (bool, error) {
	prompt := &promptui.Prompt{
		Label:     label,
		Default:   "N",
		IsConfirm: true,
	}
	answer, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}
