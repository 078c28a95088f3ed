/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package spi

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Int128 is a two's-complement signed 128-bit integer. It is the wide
// representation of decimals whose precision does not fit into an int64.
type Int128 struct {
	High int64
	Low  uint64
}

var (
	// Int128Zero is the zero value.
	Int128Zero = Int128{}
	// Int128One is 1.
	Int128One = Int128{Low: 1}
	// Int128Max is 2^127 - 1.
	Int128Max = Int128{High: 1<<63 - 1, Low: ^uint64(0)}
	// Int128Min is -2^127.
	Int128Min = Int128{High: -1 << 63}
)

// Int128FromInt64 sign-extends v.
func Int128FromInt64(v int64) Int128 {
	return Int128{High: v >> 63, Low: uint64(v)}
}

// Int128FromBigInt converts v, failing when it does not fit into 128 bits.
func Int128FromBigInt(v *big.Int) (Int128, error) {
	if v.BitLen() > 127 && !(v.Sign() < 0 && v.Cmp(int128MinBig) == 0) {
		return Int128{}, fmt.Errorf("%w: %s does not fit into 128 bits", ErrArithmeticOverflow, v.String())
	}
	abs := new(big.Int).Abs(v)
	low := new(big.Int).And(abs, uint64MaskBig).Uint64()
	high := new(big.Int).Rsh(abs, 64).Uint64()
	r := Int128{High: int64(high), Low: low}
	if v.Sign() < 0 {
		r = r.Negate()
	}
	return r, nil
}

var (
	uint64MaskBig = new(big.Int).SetUint64(^uint64(0))
	int128MinBig  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// IsZero reports whether v == 0.
func (v Int128) IsZero() bool {
	return v.High == 0 && v.Low == 0
}

// IsNegative reports whether v < 0.
func (v Int128) IsNegative() bool {
	return v.High < 0
}

// Negate returns -v. Negating Int128Min yields Int128Min.
func (v Int128) Negate() Int128 {
	low, borrow := bits.Sub64(0, v.Low, 0)
	high, _ := bits.Sub64(0, uint64(v.High), borrow)
	return Int128{High: int64(high), Low: low}
}

// Add returns v + o, or ErrArithmeticOverflow when the sum leaves the 128-bit range.
func (v Int128) Add(o Int128) (Int128, error) {
	low, carry := bits.Add64(v.Low, o.Low, 0)
	high, _ := bits.Add64(uint64(v.High), uint64(o.High), carry)
	r := Int128{High: int64(high), Low: low}
	// 同号相加结果变号即溢出
	if (v.High < 0) == (o.High < 0) && (r.High < 0) != (v.High < 0) {
		return Int128{}, fmt.Errorf("%w: 128-bit addition", ErrArithmeticOverflow)
	}
	return r, nil
}

// Compare returns -1, 0 or +1.
func (v Int128) Compare(o Int128) int {
	switch {
	case v.High < o.High:
		return -1
	case v.High > o.High:
		return 1
	case v.Low < o.Low:
		return -1
	case v.Low > o.Low:
		return 1
	}
	return 0
}

// IsInt64 reports whether v can be narrowed to an int64 without loss.
func (v Int128) IsInt64() bool {
	return v.High == int64(v.Low)>>63
}

// Int64 narrows v. The result is only meaningful when IsInt64 is true.
func (v Int128) Int64() int64 {
	return int64(v.Low)
}

// BigInt returns v as a newly allocated big.Int.
func (v Int128) BigInt() *big.Int {
	neg := v.IsNegative()
	abs := v
	if neg {
		abs = v.Negate()
	}
	r := new(big.Int).SetUint64(uint64(abs.High))
	r.Lsh(r, 64)
	r.Or(r, new(big.Int).SetUint64(abs.Low))
	if neg {
		r.Neg(r)
	}
	return r
}

func (v Int128) String() string {
	return v.BigInt().String()
}
