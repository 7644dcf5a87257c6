/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package msd

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func formatBool(val bool) string {
	if val {
		return "true"
	}
	return "false"
}

func parseBool(text string, offset uint64) (bool, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &SyntaxError{"invalid bool " + strconv.Quote(text), offset}
}

func formatInt(val int64) string {
	return strconv.FormatInt(val, 10)
}

func formatUint(val uint64) string {
	return strconv.FormatUint(val, 10)
}

// formatFloat formats val with the shortest digits that round-trip at the
// given bit size. Values in [1e-5, 1e16) use plain decimal notation and always
// carry a decimal point; everything else uses an exponent with no '+' and no
// leading zeros.
func formatFloat(val float64, bitSize int) string {
	switch {
	case math.IsNaN(val):
		return "NaN"
	case math.IsInf(val, 1):
		return "inf"
	case math.IsInf(val, -1):
		return "-inf"
	}

	abs := math.Abs(val)
	if abs == 0 || (abs >= 1e-5 && abs < 1e16) {
		str := strconv.FormatFloat(val, 'f', -1, bitSize)
		if !strings.ContainsRune(str, '.') {
			str += ".0"
		}
		return str
	}

	str := strconv.FormatFloat(val, 'e', -1, bitSize)
	idx := strings.IndexByte(str, 'e')
	mant, exp := str[:idx], str[idx+1:]

	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	exp = strings.TrimLeft(exp[1:], "0")

	return mant + "e" + sign + exp
}

func formatDecimal(val decimal.Decimal) string {
	return val.String()
}

// isCanonicalInt returns true if text is a canonical base-10 integer: digits
// only, with an optional leading '-' when signed, no leading zeros and no
// negative zero.
func isCanonicalInt(text string, signed bool) bool {
	if signed && strings.HasPrefix(text, "-") {
		text = text[1:]
		if text == "0" {
			return false
		}
	}
	if text == "" {
		return false
	}
	if len(text) > 1 && text[0] == '0' {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func parseInt(text string, bitSize int, offset uint64) (int64, error) {
	if !isCanonicalInt(text, true) {
		return 0, &InvalidNumberError{text, offset}
	}
	val, err := strconv.ParseInt(text, 10, bitSize)
	if err != nil {
		if isRangeError(err) {
			return 0, &OverflowError{text, bitSize, offset}
		}
		return 0, &InvalidNumberError{text, offset}
	}
	return val, nil
}

func parseUint(text string, bitSize int, offset uint64) (uint64, error) {
	if !isCanonicalInt(text, false) {
		return 0, &InvalidNumberError{text, offset}
	}
	val, err := strconv.ParseUint(text, 10, bitSize)
	if err != nil {
		if isRangeError(err) {
			return 0, &OverflowError{text, bitSize, offset}
		}
		return 0, &InvalidNumberError{text, offset}
	}
	return val, nil
}

func parseFloat(text string, bitSize int, offset uint64) (float64, error) {
	val, err := strconv.ParseFloat(text, bitSize)
	if err != nil {
		if isRangeError(err) {
			return 0, &OverflowError{text, bitSize, offset}
		}
		return 0, &InvalidNumberError{text, offset}
	}
	return val, nil
}

func parseDecimal(text string, offset uint64) (decimal.Decimal, error) {
	val, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, &InvalidNumberError{text, offset}
	}
	return val, nil
}
