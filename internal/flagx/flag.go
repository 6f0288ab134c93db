// Package flagx lets several loaders share one command line. Each loader
// parses only the flags its own flag.FlagSet defines and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

type boolFlag interface {
	IsBoolFlag() bool
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(boolFlag)
	return ok && b.IsBoolFlag()
}

// lookup resolves "-name", "--name", "-name=value" and "--name=value"
// against fs. inline reports whether the value is part of the argument.
func lookup(fs *flag.FlagSet, arg string) (f *flag.Flag, inline bool) {
	if !strings.HasPrefix(arg, "-") {
		return nil, false
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	name, _, inline = strings.Cut(name, "=")
	if name == "" {
		return nil, false
	}
	return fs.Lookup(name), inline
}

// Known returns the arguments of args that refer to flags defined in fs,
// each followed by its value when the value is a separate argument.
//
// Boolean flags never take the next argument; the flag package only
// accepts "-b=false" for them. A value that starts with "-" is not taken
// either, so "-c -x" yields just "-c". Parsing stops at "--".
func Known(fs *flag.FlagSet, args []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		f, inline := lookup(fs, arg)
		if f == nil {
			continue
		}
		filtered = append(filtered, arg)
		if inline || isBool(f) {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ParseKnown parses the flags of args that fs defines.
func ParseKnown(fs *flag.FlagSet, args []string) error {
	return fs.Parse(Known(fs, args))
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or an empty string when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = ParseKnown(fs, args)

	return path
}
