// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("module types", func() {
	DescribeTable("rendering and parsing round-trip", func(m ModuleType, name string) {
		Expect(m.String()).To(Equal(name))

		parsed, err := ParseModuleType(name)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(Equal(m))
	},
		Entry("POSIX", ModulePOSIX, "POSIX"),
		Entry("MPIIO", ModuleMPIIO, "MPIIO"),
		Entry("STDIO", ModuleSTDIO, "STDIO"),
	)

	It("parses case-insensitively", func() {
		parsed, err := ParseModuleType("posix")
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(Equal(ModulePOSIX))
	})

	It("rejects unknown names", func() {
		_, err := ParseModuleType("NVME")
		Expect(err).To(HaveOccurred())
	})

	It("renders unknown tags without panicking", func() {
		Expect(ModuleType(99).String()).To(Equal("UNKNOWN(99)"))
	})
})

var _ = Describe("a module type flag", func() {
	It("is empty until set", func() {
		var mf ModuleTypeFlag
		Expect(mf.String()).To(BeEmpty())
		Expect(mf.Value()).To(Equal(ModuleType(0)))
	})

	It("holds the parsed module", func() {
		var mf ModuleTypeFlag
		Expect(mf.Set("mpiio")).To(Succeed())
		Expect(mf.Value()).To(Equal(ModuleMPIIO))
		Expect(mf.String()).To(Equal("MPIIO"))
	})

	It("rejects unknown modules", func() {
		var mf ModuleTypeFlag
		Expect(mf.Set("BOGUS")).ToNot(Succeed())
	})

	It("lists its possible values", func() {
		Expect(ModuleTypeFlagValues()).To(Equal("POSIX, MPIIO, STDIO"))
	})
})
