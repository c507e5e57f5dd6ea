// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("counter schemas", func() {
	DescribeTable("pin each version's counter counts",
		func(tag VersionTag, m ModuleType, numInts, numFloats int) {
			s, ok := SchemaFor(tag, m)
			Expect(ok).To(BeTrue())
			Expect(s.Ints).To(HaveLen(numInts))
			Expect(s.Floats).To(HaveLen(numFloats))
			Expect(s.CounterBlockSize()).To(Equal(8 * (numInts + numFloats)))
		},
		Entry("v0.8 POSIX", Version08, ModulePOSIX, 14, 8),
		Entry("v0.9 POSIX", Version09, ModulePOSIX, 20, 10),
		Entry("v0.9 MPIIO", Version09, ModuleMPIIO, 12, 7),
		Entry("v1.0 POSIX", Version10, ModulePOSIX, 26, 13),
		Entry("v1.0 MPIIO", Version10, ModuleMPIIO, 16, 9),
		Entry("v1.0 STDIO", Version10, ModuleSTDIO, 9, 5),
	)

	It("rejects modules a version does not log", func() {
		_, ok := SchemaFor(Version08, ModuleMPIIO)
		Expect(ok).To(BeFalse())

		_, ok = SchemaFor(Version09, ModuleSTDIO)
		Expect(ok).To(BeFalse())
	})

	It("yields nothing for unknown versions", func() {
		Expect(SchemasFor(VersionTag("9.9"))).To(BeNil())
	})

	It("only appends counters across versions", func() {
		v08, _ := SchemaFor(Version08, ModulePOSIX)
		v09, _ := SchemaFor(Version09, ModulePOSIX)
		v10, _ := SchemaFor(Version10, ModulePOSIX)

		Expect(v09.Ints[:len(v08.Ints)]).To(Equal(v08.Ints))
		Expect(v09.Floats[:len(v08.Floats)]).To(Equal(v08.Floats))
		Expect(v10.Ints[:len(v09.Ints)]).To(Equal(v09.Ints))
		Expect(v10.Floats[:len(v09.Floats)]).To(Equal(v09.Floats))

		m09, _ := SchemaFor(Version09, ModuleMPIIO)
		m10, _ := SchemaFor(Version10, ModuleMPIIO)
		Expect(m10.Ints[:len(m09.Ints)]).To(Equal(m09.Ints))
		Expect(m10.Floats[:len(m09.Floats)]).To(Equal(m09.Floats))
	})

	It("names counters after their module", func() {
		for _, tag := range []VersionTag{Version08, Version09, Version10} {
			for _, s := range SchemasFor(tag) {
				prefix := s.Module.String() + "_"
				for _, name := range s.Ints {
					Expect(name).To(HavePrefix(prefix))
				}
				for _, name := range s.Floats {
					Expect(name).To(HavePrefix(prefix + "F_"))
				}
			}
		}
	})
})
