// Package encoding decodes legacy-charset object names and normalizes texture
// paths found in documents written by older exporters.
package encoding

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for charset names Lookup does not know.
var ErrUnknownCharset = errors.New("unknown charset")

// Lookup returns the encoding for a charset name. An empty name or "utf-8"
// returns nil, meaning no decoding.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "euc-kr", "cp949":
		return korean.EUCKR, nil
	case "shift-jis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "gbk", "cp936":
		return simplifiedchinese.GBK, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, name)
	}
}

// Decoder turns names that are not valid UTF-8 into UTF-8 using a legacy
// charset. Valid UTF-8 passes through unchanged.
type Decoder struct {
	enc encoding.Encoding
}

// NewDecoder creates a Decoder for the named charset.
func NewDecoder(charset string) (*Decoder, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	return &Decoder{enc: enc}, nil
}

// String decodes s. Returns s as-is when it is already UTF-8, when no charset
// is configured, or when decoding fails.
func (d *Decoder) String(s string) string {
	if d == nil || d.enc == nil || utf8.ValidString(s) {
		return s
	}
	result, _, err := transform.String(d.enc.NewDecoder(), s)
	if err != nil {
		return s
	}
	return result
}

// NormalizePath converts Windows separators to forward slashes and drops a
// leading "./".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "./")
}
