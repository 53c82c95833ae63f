//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
)

// main emits the scalar bit-packing kernels for every supported bit
// width so the generated file stays a single go:generate step.
func main() {
	Package("github.com/Akron/deltabp-go/internal/bitpack")
	ConstraintExpr("amd64")
	ConstraintExpr("!noasm")

	for bw := 1; bw <= bitpackMaxWidth; bw++ {
		genPack8Kernel(bw)
		genUnpack8Kernel(bw)
	}

	Generate()
}
