package dbexport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/marcboeker/go-duckdb"
)

const (
	memberSep = ", "
	keySep    = ": "
)

// SerializeRow renders row as one JSONL line, newline included.
//
// Members are separated by ", " and keys by ": ", and text is written as
// literal UTF-8. Blobs that are valid UTF-8 become strings, anything else
// is base64 encoded (standard alphabet, padded). DuckDB decimals and huge
// integers are written as exact numbers, its lists as arrays and its structs
// and maps as objects. NaN, infinities and any other type fail with a
// KindSerialization error.
func SerializeRow(row Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range row {
		if i > 0 {
			buf.WriteString(memberSep)
		}
		if err := writeString(&buf, f.Name); err != nil {
			return nil, NewError(KindSerialization, "", fmt.Sprintf("cannot encode column name %q", f.Name), err)
		}
		buf.WriteString(keySep)
		if err := writeValue(&buf, f.Value); err != nil {
			return nil, NewError(KindSerialization, "", fmt.Sprintf("cannot encode column %q", f.Name), err)
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(t, 10))
	case float32:
		return writeFloat(buf, float64(t), 32)
	case float64:
		return writeFloat(buf, t, 64)
	case string:
		return writeString(buf, t)
	case []byte:
		return writeString(buf, blobText(t))
	case time.Time:
		return writeString(buf, t.Format(time.RFC3339Nano))
	case *big.Int:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(t.String())
	case duckdb.Decimal:
		buf.WriteString(decimalText(t))
	case []interface{}:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteString(memberSep)
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return writeObject(buf, keys, func(k string) interface{} { return t[k] })
	case duckdb.Map:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, v := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = v
		}
		sort.Strings(keys)
		return writeObject(buf, keys, func(k string) interface{} { return byKey[k] })
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// writeFloat keeps a fraction or exponent on every float so it parses back as
// one. Magnitudes in [1e-4, 1e16) are written in positional notation, the
// rest with an exponent.
func writeFloat(buf *bytes.Buffer, f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("unsupported float value %v", f)
	}
	format := byte('e')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	buf.WriteString(s)
	return nil
}

func writeObject(buf *bytes.Buffer, keys []string, value func(string) interface{}) error {
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(memberSep)
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteString(keySep)
		if err := writeValue(buf, value(k)); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// decimalText renders the exact value of d, e.g. 1234 with scale 2 as 12.34.
func decimalText(d duckdb.Decimal) string {
	if d.Value == nil {
		return "0"
	}
	digits := new(big.Int).Abs(d.Value).String()
	scale := int(d.Scale)
	sign := ""
	if d.Value.Sign() < 0 {
		sign = "-"
	}
	if scale == 0 {
		return sign + digits
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	cut := len(digits) - scale
	return sign + digits[:cut] + "." + digits[cut:]
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// blobText decodes raw bytes: UTF-8 text as is, anything else as base64.
func blobText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}
