// Package flagx lets several config loaders share os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowedFlags (and their values) from args.
// Both "-f value" and "-f=value" forms are recognised. A value is only taken
// from the next argument when it does not itself start with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if allowed[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the JSON config path given with -c or -config,
// or "" when neither is present.
func ConfigFileFlag() string {
	return stringFlag("config", "c")
}

// EnvFileFlag returns the dotenv path given with -env, or "" when absent.
func EnvFileFlag() string {
	return stringFlag("env", "")
}

func stringFlag(long, short string) string {
	var value string

	names := []string{"-" + long}
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&value, long, "", "")
	if short != "" {
		names = append(names, "-"+short)
		fs.StringVar(&value, short, "", "")
	}

	_ = fs.Parse(FilterArgs(os.Args[1:], names))
	return value
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
