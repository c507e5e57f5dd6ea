// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ModuleType identifies the instrumentation module that produced a file
// record.
type ModuleType uint32

// Module types, as tagged in file records. The zero value is reserved;
// records never carry it.
const (
	// ModulePOSIX is the POSIX I/O instrumentation module.
	ModulePOSIX ModuleType = 1
	// ModuleMPIIO is the MPI-IO instrumentation module.
	ModuleMPIIO ModuleType = 2
	// ModuleSTDIO is the buffered stdio instrumentation module.
	ModuleSTDIO ModuleType = 3
)

// KnownModules lists every module type this reader decodes, in tag
// order.
var KnownModules = []ModuleType{ModulePOSIX, ModuleMPIIO, ModuleSTDIO}

func (m ModuleType) String() string {
	switch m {
	case ModulePOSIX:
		return "POSIX"
	case ModuleMPIIO:
		return "MPIIO"
	case ModuleSTDIO:
		return "STDIO"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(m))
	}
}

// ParseModuleType maps a module name to its ModuleType. Matching is
// case-insensitive.
func ParseModuleType(s string) (ModuleType, error) {
	switch strings.ToUpper(s) {
	case "POSIX":
		return ModulePOSIX, nil
	case "MPIIO":
		return ModuleMPIIO, nil
	case "STDIO":
		return ModuleSTDIO, nil
	default:
		return 0, errors.Errorf("unknown module type %q", s)
	}
}
