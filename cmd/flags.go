package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Output formats accepted by --format on the listing commands.
var (
	validateFormats = []string{"text", "json"}
	listFormats     = []string{"table", "json", "yaml"}
)

// AddFlagValidation wraps a flag so invalid values are rejected while the
// command line is parsed.
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{Value: flag.Value, validator: validator}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}

	return v.Value.Set(val)
}

// ValidateChoice checks value against allowed and suggests the closest
// match on failure.
func ValidateChoice(what, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	msg := fmt.Sprintf("invalid %s %q, must be one of: %s", what, value, strings.Join(allowed, ", "))
	if s := suggest(value, allowed); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}

	return errors.New(msg)
}

// suggest returns the allowed value sharing the longest prefix with value.
func suggest(value string, allowed []string) string {
	value = strings.ToLower(value)
	best, bestLen := "", 0
	for _, a := range allowed {
		n := 0
		for n < len(a) && n < len(value) && a[n] == value[n] {
			n++
		}
		if n > bestLen {
			best, bestLen = a, n
		}
	}

	return best
}

// ValidateDirExists rejects paths that are not existing directories.
func ValidateDirExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	return nil
}

// out returns the writer commands print results to.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
