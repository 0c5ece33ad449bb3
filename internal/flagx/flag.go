// Package flagx lets several loaders share os.Args: each one picks out only
// the flags it owns and parses them with its own flag.FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Set describes the flags a loader owns. Value flags take an argument
// ("-a :8080" or "-a=:8080"); switches never consume the following token.
type Set struct {
	Values   []string
	Switches []string
}

// FilterArgs returns the subset of args that belong to the flags in set, in
// their original order. A value flag keeps the next token as its value unless
// that token itself starts with "-".
func FilterArgs(args []string, set Set) []string {
	values := make(map[string]struct{}, len(set.Values))
	for _, f := range set.Values {
		values[f] = struct{}{}
	}
	switches := make(map[string]struct{}, len(set.Switches))
	for _, f := range set.Switches {
		switches[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			_, isValue := values[name]
			_, isSwitch := switches[name]
			if isValue || isSwitch {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := switches[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := values[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFilePath returns the path given with -c or -config, or "" when
// neither is present.
func ConfigFilePath() string {
	var path string

	args := FilterArgs(os.Args[1:], Set{Values: []string{"-c", "-config"}})

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
