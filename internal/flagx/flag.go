// Package flagx picks a binary's own flags out of os.Args before handing
// them to a flag.FlagSet. Both gophfeed binaries parse the same argument
// list twice, once for the JSON config path and once for the regular flags,
// and each pass must ignore the flags owned by the other.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps the arguments in args whose flag name is listed in names,
// in their original order. A flag may carry its value as "-a=host:port" or
// as the following argument ("-a host:port"); an argument starting with '-'
// is never taken as a value.
func FilterArgs(args []string, names []string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if keep[name] {
				out = append(out, arg)
			}
			continue
		}

		if !keep[arg] {
			continue
		}
		out = append(out, arg)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to the JSON config file")
	fs.StringVar(&path, "c", "", "path to the JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
