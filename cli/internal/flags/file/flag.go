package file

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Type is the type name for the file flag.
const Type = "file"

// Flag holds the path of an existing regular file, such as a dependency
// definition document. An unset flag has an empty path.
type Flag struct {
	path string
	info os.FileInfo
}

func (f *Flag) String() string {
	return f.path
}

// IsSet reports whether a file was given.
func (f *Flag) IsSet() bool {
	return f.info != nil
}

// Path returns the path as given on the command line.
func (f *Flag) Path() string {
	return f.path
}

func (f *Flag) Set(s string) error {
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("unable to stat file %q: %w", s, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%q is not a regular file", s)
	}
	f.path, f.info = s, info
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func Var(f *pflag.FlagSet, name string, usage string) {
	f.Var(&Flag{}, name, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, usage string) {
	f.VarP(&Flag{}, name, shorthand, usage)
}

func Get(f *pflag.FlagSet, name string) (*Flag, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}
	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return val, nil
}
