package io

// FIXED_FRACTION_BITS is the width of the fractional part of the 16-bit
// fixed point values used by animation keyframes. The remaining 10 bits are
// the integer part.
const FIXED_FRACTION_BITS = 6

const fixedScale = 1 << FIXED_FRACTION_BITS

// FixedToFloat expands a 10.6 fixed point value. Every result is exactly
// representable as a float32, so the conversion is lossless.
func FixedToFloat(value uint16) float32 {
	return float32(value) / fixedScale
}

// FloatToFixed is the inverse of FixedToFloat. Fractions finer than 1/64
// are truncated toward zero and values outside [0, 1024) wrap, negative
// ones included.
func FloatToFixed(value float32) uint16 {
	return uint16(int32(value * fixedScale))
}
