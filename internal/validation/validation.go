// Package validation checks user-supplied stack descriptions before they are
// sent to the oracle or stored.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bcnelson/stackex/internal/domain"
)

const (
	// MaxStackTextLength bounds a free-text description, in characters.
	MaxStackTextLength = 500
	// MaxStackNameLength bounds one technology or stack name.
	MaxStackNameLength = 64
	// MaxStackItems bounds the number of entries in a selection or a save.
	MaxStackItems = 30
)

// ValidateStackText validates a free-text stack description.
func ValidateStackText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("stack must not be empty")
	}
	if n := utf8.RuneCountInString(text); n > MaxStackTextLength {
		return fmt.Errorf("stack must be at most %d characters, got %d", MaxStackTextLength, n)
	}
	if hasControl(text, true) {
		return fmt.Errorf("stack must not contain control characters")
	}
	return nil
}

// ValidateStackName validates one technology or stack name.
func ValidateStackName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxStackNameLength {
		return fmt.Errorf("name must be at most %d characters", MaxStackNameLength)
	}
	if hasControl(name, false) {
		return fmt.Errorf("name must not contain control characters")
	}
	return nil
}

// ValidateVersion validates a version chosen for a catalog technology.
func ValidateVersion(name, version string) error {
	if version == "" || version == domain.LatestVersion {
		return nil
	}
	tech, ok := domain.LookupTech(name)
	if !ok {
		return nil
	}
	if !tech.HasVersion(version) {
		return fmt.Errorf("%s has no version %q", name, version)
	}
	return nil
}

// ValidateOS validates an operating system value.
func ValidateOS(os string) error {
	if os == "" {
		return fmt.Errorf("os must not be empty")
	}
	if _, err := domain.ParseOS(os); err != nil {
		return fmt.Errorf("os must be one of windows, linux or macos")
	}
	return nil
}

// ValidateStackInput validates a normalized stack description.
func ValidateStackInput(in domain.StackInput) ValidationErrors {
	var errs ValidationErrors
	if in.Kind == domain.InputFreeText {
		if err := ValidateStackText(in.Text); err != nil {
			errs.Add("stack", in.Text, err.Error())
		}
		return errs
	}

	if len(in.Selection) == 0 {
		errs.Add("stack", "", "stack must not be empty")
	}
	if len(in.Selection) > MaxStackItems {
		errs.Add("stack", "", fmt.Sprintf("at most %d technologies can be selected", MaxStackItems))
	}
	for _, it := range in.Selection {
		if err := ValidateStackName(it.Name); err != nil {
			errs.Add("stack", it.Name, err.Error())
		}
		if err := ValidateVersion(it.Name, it.Version); err != nil {
			errs.Add("version", it.Version, err.Error())
		}
	}
	return errs
}

// ValidateGenerateRequest validates the body of a generate request.
func ValidateGenerateRequest(req *domain.GenerateScriptRequest) ValidationErrors {
	var errs ValidationErrors
	if !req.Stack.Present() {
		errs.Add("stack", "", "stack must not be empty")
	} else {
		errs = append(errs, ValidateStackInput(req.Stack.Input)...)
	}
	if err := ValidateOS(req.OS); err != nil {
		errs.Add("os", req.OS, err.Error())
	}
	return errs
}

// ValidateSaveRequest validates the body of a save request.
func ValidateSaveRequest(req *domain.SaveStackRequest) ValidationErrors {
	var errs ValidationErrors
	if len(req.Stacks) == 0 {
		errs.Add("stacks", "", "stacks must not be empty")
	}
	if len(req.Stacks) > MaxStackItems {
		errs.Add("stacks", "", fmt.Sprintf("at most %d stacks can be saved at once", MaxStackItems))
	}
	for _, s := range req.Stacks {
		if err := ValidateStackName(s); err != nil {
			errs.Add("stacks", s, err.Error())
		}
	}
	return errs
}

// hasControl reports control characters; newlines and tabs are allowed in
// multi-line text.
func hasControl(s string, multiline bool) bool {
	for _, r := range s {
		if multiline && (r == '\n' || r == '\r' || r == '\t') {
			continue
		}
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
