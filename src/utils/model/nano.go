package model

import (
	"fmt"
	"math"
)

// Nano is an amount in nanotons. All arithmetic inside the engine is
// fixed-point; decimal TON appears only at the API edges.
type Nano int64

const NanosPerTon = 1_000_000_000

// NanoFromTon converts a decimal TON amount to nanotons, flooring the
// fraction the same way the signer does before building a transfer.
func NanoFromTon(ton float64) Nano {
	return Nano(math.Floor(ton * NanosPerTon))
}

func (n Nano) Ton() float64 {
	return float64(n) / NanosPerTon
}

func (n Nano) String() string {
	return fmt.Sprintf("%d", int64(n))
}
