package main

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// applyConfig loads the TOML file at path and assigns its values to the
// flags of the same name. Flags set on the command line keep their value.
//
//	seams = 50
//	mode = "both"
//	seam-color = "#00ff00"
func applyConfig(flags *pflag.FlagSet, path string) error {
	var values map[string]any
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("unable to read the config file: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f := flags.Lookup(k)
		if f == nil || k == "config" {
			return fmt.Errorf("config file %s: unknown key %q", path, k)
		}
		if f.Changed {
			continue
		}
		if err := f.Value.Set(fmt.Sprint(values[k])); err != nil {
			return fmt.Errorf("config file %s: invalid value for %q: %w", path, k, err)
		}
	}
	return nil
}
