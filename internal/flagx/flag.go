// Package flagx lets several configuration layers share one command line:
// each layer filters os.Args down to the flags it owns before parsing, so an
// unknown flag in one layer never aborts another.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in valued (flags that take a value)
// and switches (boolean flags), preserving their order.
//
// Accepted forms:
//
//	-c conf.json     valued flag with a separate value
//	-config=x.json   any flag with an inline value
//	-p               switch
//
// A valued flag swallows the following argument unless it looks like another
// flag.
func FilterArgs(args []string, valued []string, switches ...string) []string {
	takesValue := make(map[string]bool, len(valued)+len(switches))
	for _, f := range valued {
		takesValue[f] = true
	}
	for _, f := range switches {
		takesValue[f] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := takesValue[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		valuedFlag, ok := takesValue[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if valuedFlag && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// JSONConfigPath returns the path given with -c or -config, or "" when the
// command line names no JSON config file.
func JSONConfigPath() string {
	return jsonConfigPath(os.Args[1:])
}

func jsonConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
