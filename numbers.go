package goserde

import (
	"math"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer magnitude exactly representable in a
// double-precision float, ±(2^53-1). Int64 decoding is bounded by it so that
// values survive any double-based JSON processor unchanged.
const MaxSafeInteger = 1<<53 - 1

// convErr is a position-free conversion failure; decoders wrap it with the
// offending tag path and offset.
type convErr struct {
	code string
	msg  string
}

func (e *convErr) Error() string { return e.msg }

func convErrf(code, msg string) *convErr { return &convErr{code: code, msg: msg} }

// int64FromText parses a numeral as an exact integer within the safe-integer
// bound. Fractional parts of zero ("10.0", "1e2") are accepted; anything not
// exactly representable fails.
func int64FromText(text string) (int64, *convErr) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		if v > MaxSafeInteger || v < -MaxSafeInteger {
			return 0, convErrf(CodePrecisionLoss,
				"integer "+text+" exceeds the safe bound ±(2^53-1)")
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, convErrf(CodeTypeMismatch, strconv.Quote(text)+" is not an integer")
	}
	return int64FromFloat(f)
}

// int64FromFloat converts an already-parsed double to an exact integer.
func int64FromFloat(f float64) (int64, *convErr) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, convErrf(CodePrecisionLoss, "non-finite value cannot be decoded as an integer")
	}
	if f != math.Trunc(f) {
		return 0, convErrf(CodePrecisionLoss,
			strconv.FormatFloat(f, 'g', -1, 64)+" has a fractional part")
	}
	if f > MaxSafeInteger || f < -MaxSafeInteger {
		return 0, convErrf(CodePrecisionLoss,
			strconv.FormatFloat(f, 'g', -1, 64)+" exceeds the safe bound ±(2^53-1)")
	}
	return int64(f), nil
}

func narrowInt(v int64, lo, hi int64, width string) (int64, *convErr) {
	if v < lo || v > hi {
		return 0, convErrf(CodePrecisionLoss,
			strconv.FormatInt(v, 10)+" does not fit "+width)
	}
	return v, nil
}

// float64FromText parses a numeral, including the special tokens the lexer
// admits when special floats are allowed.
func float64FromText(text string) (float64, *convErr) {
	switch text {
	case "NaN":
		return math.NaN(), nil
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(text, "."), 64)
	if err != nil {
		return 0, convErrf(CodeTypeMismatch, strconv.Quote(text)+" is not a number")
	}
	return f, nil
}

// charFromText interprets a single-character string as a rune.
func charFromText(text string) (rune, *convErr) {
	runes := []rune(text)
	if len(runes) != 1 {
		return 0, convErrf(CodeTypeMismatch, strconv.Quote(text)+" is not a single character")
	}
	return runes[0], nil
}

// charFromCode interprets a numeric code point.
func charFromCode(text string) (rune, *convErr) {
	v, cerr := int64FromText(text)
	if cerr != nil {
		return 0, cerr
	}
	if v < 0 || v > int64(utf8MaxRune) {
		return 0, convErrf(CodeTypeMismatch, text+" is not a valid code point")
	}
	return rune(v), nil
}

const utf8MaxRune = '\U0010FFFF'
