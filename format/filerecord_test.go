// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"github.com/danjacques/gojoblog/support/zstream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("file records", func() {
	// Prelude builders matching the collectors' wire layouts.
	taggedPrelude := func(hash uint64, rank int64, module uint32, suffix string) []byte {
		return concat(leU64(hash), leI64(rank), leU32(module), make([]byte, 4),
			fixedStr(suffix, nameSuffixSize))
	}
	untaggedPrelude := func(hash uint64, rank int64, suffix string) []byte {
		return concat(leU64(hash), leI64(rank), fixedStr(suffix, nameSuffixSize))
	}

	counter := func(rec *FileRecord, name string) int64 {
		v, ok := rec.Counters.Get(name)
		Expect(ok).To(BeTrue(), "missing counter %s", name)
		return v
	}
	fcounter := func(rec *FileRecord, name string) float64 {
		v, ok := rec.FCounters.Get(name)
		Expect(ok).To(BeTrue(), "missing counter %s", name)
		return v
	}

	Context("under the current layout", func() {
		var rr *RecordReader

		BeforeEach(func() {
			rr = NewRecordReader(mustLayout(Version10))
		})

		It("decodes a POSIX record and binds counters to schema order", func() {
			ints, floats := seqInts(26, 1000), seqFloats(13, 0.5)
			src := sourceOf(
				taggedPrelude(0xFEEDFACECAFEF00D, 4, uint32(ModulePOSIX), "app.out"),
				buildCounterBlock(ints, floats),
			)

			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())

			Expect(rec.Hash).To(Equal(uint64(0xFEEDFACECAFEF00D)))
			Expect(rec.Rank).To(Equal(int64(4)))
			Expect(rec.Module).To(Equal(ModulePOSIX))
			Expect(rec.NameSuffix).To(Equal("app.out"))

			By("checking positional counters by name")
			Expect(rec.Counters.Len()).To(Equal(26))
			Expect(counter(rec, "POSIX_OPENS")).To(Equal(int64(1000)))
			Expect(counter(rec, "POSIX_RW_SWITCHES")).To(Equal(int64(1013)))
			Expect(counter(rec, "POSIX_SIZE_WRITE_100_1K")).To(Equal(int64(1025)))

			Expect(rec.FCounters.Len()).To(Equal(13))
			Expect(fcounter(rec, "POSIX_F_OPEN_START_TIMESTAMP")).To(Equal(0.5))
			Expect(fcounter(rec, "POSIX_F_MAX_WRITE_TIME")).To(Equal(12.5))
		})

		It("rejects lookups of names outside the record's schema", func() {
			src := sourceOf(
				taggedPrelude(1, 0, uint32(ModulePOSIX), "x"),
				buildCounterBlock(seqInts(26, 0), seqFloats(13, 0)),
			)
			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())

			_, ok := rec.Counters.Get("NOT_A_COUNTER")
			Expect(ok).To(BeFalse())

			By("including names belonging to another module")
			_, ok = rec.Counters.Get("MPIIO_SYNCS")
			Expect(ok).To(BeFalse())
		})

		It("iterates counters in schema order", func() {
			src := sourceOf(
				taggedPrelude(1, 0, uint32(ModuleSTDIO), "log.txt"),
				buildCounterBlock(seqInts(9, 100), seqFloats(5, 0)),
			)
			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())

			var names []string
			var values []int64
			rec.Counters.Each(func(name string, v int64) {
				names = append(names, name)
				values = append(values, v)
			})
			Expect(names).To(Equal(rec.Counters.Names()))
			Expect(values).To(Equal(seqInts(9, 100)))
		})

		It("keeps a full-width name suffix intact", func() {
			src := sourceOf(
				taggedPrelude(1, 0, uint32(ModulePOSIX), "abcdefghijkl"),
				buildCounterBlock(seqInts(26, 0), seqFloats(13, 0)),
			)
			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(rec.NameSuffix).To(Equal("abcdefghijkl"))
		})

		It("accepts the shared-record rank", func() {
			src := sourceOf(
				taggedPrelude(1, RankShared, uint32(ModuleMPIIO), "shared.h5"),
				buildCounterBlock(seqInts(16, 0), seqFloats(9, 0)),
			)
			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(rec.Rank).To(Equal(RankShared))
		})

		It("rejects ranks below the shared sentinel", func() {
			src := sourceOf(
				taggedPrelude(1, -2, uint32(ModulePOSIX), "x"),
				buildCounterBlock(seqInts(26, 0), seqFloats(13, 0)),
			)
			_, err := rr.ReadRecord(src)
			Expect(err).To(MatchError(ErrFormat))
		})

		It("rejects an unknown module tag", func() {
			src := sourceOf(taggedPrelude(1, 0, 99, "x"))
			_, err := rr.ReadRecord(src)
			Expect(err).To(MatchError(ErrFormat))
			Expect(err.Error()).To(ContainSubstring("UNKNOWN(99)"))
		})

		It("reports truncation inside the prelude", func() {
			full := taggedPrelude(1, 0, uint32(ModulePOSIX), "x")
			_, err := rr.ReadRecord(sourceOf(full[:20]))
			Expect(err).To(MatchError(zstream.ErrTruncated))
		})

		It("reports truncation inside the counter block", func() {
			block := buildCounterBlock(seqInts(26, 0), seqFloats(13, 0))
			src := sourceOf(
				taggedPrelude(1, 0, uint32(ModulePOSIX), "x"),
				block[:len(block)-8],
			)
			_, err := rr.ReadRecord(src)
			Expect(err).To(MatchError(zstream.ErrTruncated))
		})

		It("decodes consecutive records of different modules", func() {
			src := sourceOf(
				taggedPrelude(10, 0, uint32(ModulePOSIX), "a.dat"),
				buildCounterBlock(seqInts(26, 0), seqFloats(13, 0)),
				taggedPrelude(11, 1, uint32(ModuleMPIIO), "b.dat"),
				buildCounterBlock(seqInts(16, 500), seqFloats(9, 9.5)),
			)

			first, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(first.Module).To(Equal(ModulePOSIX))
			Expect(first.NameSuffix).To(Equal("a.dat"))

			second, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(second.Module).To(Equal(ModuleMPIIO))
			Expect(second.NameSuffix).To(Equal("b.dat"))
			Expect(counter(second, "MPIIO_INDEP_OPENS")).To(Equal(int64(500)))
			Expect(fcounter(second, "MPIIO_F_MAX_WRITE_TIME")).To(Equal(17.5))
		})
	})

	Context("under a layout that predates module tags", func() {
		It("implies the POSIX module", func() {
			rr := NewRecordReader(mustLayout(Version08))
			src := sourceOf(
				untaggedPrelude(0xABCD, 2, "scratch"),
				buildCounterBlock(seqInts(14, 300), seqFloats(8, 1.5)),
			)

			rec, err := rr.ReadRecord(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(rec.Module).To(Equal(ModulePOSIX))
			Expect(rec.NameSuffix).To(Equal("scratch"))
			Expect(counter(rec, "POSIX_RW_SWITCHES")).To(Equal(int64(313)))
			Expect(fcounter(rec, "POSIX_F_CLOSE_END_TIMESTAMP")).To(Equal(8.5))
		})
	})

	Context("under a layout whose schema lacks the tagged module", func() {
		It("rejects the record", func() {
			rr := NewRecordReader(mustLayout(Version09))
			src := sourceOf(taggedPrelude(1, 0, uint32(ModuleSTDIO), "x"))
			_, err := rr.ReadRecord(src)
			Expect(err).To(MatchError(ErrFormat))
			Expect(err.Error()).To(ContainSubstring("STDIO"))
		})
	})
})
