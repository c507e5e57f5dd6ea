// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseVersionTag", func() {
	DescribeTable("accepts well-formed tags",
		func(raw []byte, expected VersionTag) {
			tag, err := ParseVersionTag(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(tag).To(Equal(expected))
		},
		Entry("the current version", []byte("1.0\x00\x00\x00\x00\x00"), Version10),
		Entry("a legacy version", []byte("0.8\x00\x00\x00\x00\x00"), Version08),
		Entry("an unknown but well-formed version", []byte("12.34\x00\x00\x00"), VersionTag("12.34")),
		Entry("a tag filling the full width", []byte("123.5678"), VersionTag("123.5678")),
	)

	DescribeTable("rejects malformed tags before classification",
		func(raw []byte) {
			_, err := ParseVersionTag(raw)
			Expect(err).To(MatchError(ErrFormat))
		},
		Entry("binary garbage", []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x00, 0x00, 0x00}),
		Entry("all NULs", make([]byte, 8)),
		Entry("a leading letter", []byte("v1.0\x00\x00\x00\x00")),
		Entry("no dot", []byte("10\x00\x00\x00\x00\x00\x00")),
		Entry("two dots", []byte("1..0\x00\x00\x00\x00")),
		Entry("an empty major", []byte(".10\x00\x00\x00\x00\x00")),
		Entry("an empty minor", []byte("10.\x00\x00\x00\x00\x00")),
		Entry("an interior NUL", []byte("1\x00.0\x00\x00\x00\x00")),
	)
})

var _ = Describe("Classify", func() {
	It("classifies every known version", func() {
		Expect(Classify(Version10)).To(Equal(ClassCurrent))
		Expect(Classify(Version09)).To(Equal(ClassSupportedLegacy))
		Expect(Classify(Version08)).To(Equal(ClassSupportedLegacy))
	})

	It("classifies unknown and newer versions as unsupported", func() {
		Expect(Classify(VersionTag("0.7"))).To(Equal(ClassUnsupported))
		Expect(Classify(VersionTag("9.9"))).To(Equal(ClassUnsupported))
		Expect(Classify(VersionTag(""))).To(Equal(ClassUnsupported))
	})

	It("is stable across repeated calls", func() {
		for i := 0; i < 3; i++ {
			Expect(Classify(Version08)).To(Equal(ClassSupportedLegacy))
			Expect(Classify(VersionTag("9.9"))).To(Equal(ClassUnsupported))
		}
	})
})

var _ = Describe("LayoutFor", func() {
	It("fails for versions outside the table", func() {
		_, err := LayoutFor(VersionTag("9.9"))
		Expect(err).To(MatchError(ErrUnsupportedVersion))
	})

	It("pins the v1.0 layout", func() {
		l := mustLayout(Version10)
		Expect(l.JobHeaderSize).To(Equal(192))
		Expect(l.HasModuleTags).To(BeTrue())
		Expect(l.ExeFixedSize).To(BeZero())
		Expect(l.ExeCeiling).To(Equal(4096))
		Expect(l.HasMountTable).To(BeTrue())
		Expect(l.Modules()).To(Equal([]ModuleType{ModulePOSIX, ModuleMPIIO, ModuleSTDIO}))
	})

	It("pins the v0.9 layout", func() {
		l := mustLayout(Version09)
		Expect(l.JobHeaderSize).To(Equal(128))
		Expect(l.HasModuleTags).To(BeTrue())
		Expect(l.ExeCeiling).To(Equal(4096))
		Expect(l.HasMountTable).To(BeFalse())
		Expect(l.Modules()).To(Equal([]ModuleType{ModulePOSIX, ModuleMPIIO}))
	})

	It("pins the v0.8 layout", func() {
		l := mustLayout(Version08)
		Expect(l.JobHeaderSize).To(Equal(56))
		Expect(l.HasModuleTags).To(BeFalse())
		Expect(l.ExeFixedSize).To(Equal(1024))
		Expect(l.HasMountTable).To(BeFalse())
		Expect(l.Modules()).To(Equal([]ModuleType{ModulePOSIX}))
	})
})
