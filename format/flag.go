// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"strings"

	"github.com/spf13/pflag"
)

// ModuleTypeFlag is a pflag.Value implementation that stores a module
// type.
//
// The zero flag renders as the empty string; it marks an unset filter.
type ModuleTypeFlag ModuleType

var _ pflag.Value = (*ModuleTypeFlag)(nil)

func (mf *ModuleTypeFlag) String() string {
	if ModuleType(*mf) == 0 {
		return ""
	}
	return ModuleType(*mf).String()
}

// Set implements pflag.Value.
func (mf *ModuleTypeFlag) Set(v string) error {
	mt, err := ParseModuleType(v)
	if err != nil {
		return err
	}
	*mf = ModuleTypeFlag(mt)
	return nil
}

// Type implements pflag.Value.
func (mf *ModuleTypeFlag) Type() string { return "format.ModuleType" }

// Value returns the module type held by this flag.
func (mf ModuleTypeFlag) Value() ModuleType { return ModuleType(mf) }

// ModuleTypeFlagValues returns the list of possible values for a
// ModuleTypeFlag.
func ModuleTypeFlagValues() string {
	opts := make([]string, len(KnownModules))
	for i, m := range KnownModules {
		opts[i] = m.String()
	}
	return strings.Join(opts, ", ")
}
