//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

// bitpackMaxWidth bounds the widths this generator specializes. Eight
// values at bitWidth bits fit in a single 64-bit accumulator only while
// bitWidth*8 <= 64, so the fast path covers widths 1-8 — exactly the
// range produced by pages whose adjusted deltas fit a byte. Wider
// widths need a carry between two accumulator words and fall back to
// the portable Go implementation in internal/bitpack.
const bitpackMaxWidth = 8

// genPack8Kernel emits the asm for one specialization of Pack8ValuesLE
// at a fixed bit width. It packs eight uint64 lanes into bw bytes by
// building one 64-bit accumulator and storing that word at dst, which
// works here because bw*8 never exceeds 64.
func genPack8Kernel(bw int) {
	name := packKernelName(bw)
	TEXT(name, NOSPLIT, "func(src *[8]uint64, dst []byte)")
	Doc("pack8ValuesLE specialized for a fixed bit width of " + itoa(bw) + " bits.")

	srcParam := Load(Param("src"), GP64())
	srcBase := srcParam.(reg.GPVirtual)
	dstParam := Load(Param("dst").Base(), GP64())
	dstBase := dstParam.(reg.GPVirtual)

	acc := GP64()
	XORQ(acc, acc)

	tmp := GP64()

	for i := 0; i < 8; i++ {
		MOVQ(op.Mem{Base: srcBase, Disp: i * 8}, tmp)
		if bw*i > 0 {
			SHLQ(op.Imm(uint64(bw*i)), tmp)
		}
		ORQ(tmp, acc)
	}

	MOVQ(acc, op.Mem{Base: dstBase})
	RET()
}

// genUnpack8Kernel emits the mirror of genPack8Kernel: read the single
// accumulator word back out of dst and mask+shift eight lanes from it.
func genUnpack8Kernel(bw int) {
	name := unpackKernelName(bw)
	TEXT(name, NOSPLIT, "func(src []byte, dst *[8]uint64)")
	Doc("unpack8ValuesLE specialized for a fixed bit width of " + itoa(bw) + " bits.")

	srcParam := Load(Param("src").Base(), GP64())
	srcBase := srcParam.(reg.GPVirtual)
	dstParam := Load(Param("dst"), GP64())
	dstBase := dstParam.(reg.GPVirtual)

	acc := GP64()
	MOVQ(op.Mem{Base: srcBase}, acc)

	mask := uint64(1)<<uint(bw) - 1

	for i := 0; i < 8; i++ {
		lane := GP64()
		MOVQ(acc, lane)
		if bw*i > 0 {
			SHRQ(op.Imm(uint64(bw*i)), lane)
		}
		ANDQ(op.Imm(mask), lane)
		MOVQ(lane, op.Mem{Base: dstBase, Disp: i * 8})
	}

	RET()
}

func packKernelName(bw int) string   { return "pack8ValuesLE" + itoa(bw) + "Asm" }
func unpackKernelName(bw int) string { return "unpack8ValuesLE" + itoa(bw) + "Asm" }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [2]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
