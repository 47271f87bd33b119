package store

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxCount is the largest float64 that still converts to int64 without overflow.
const maxCount = float64(1 << 62)

var errNotCount = errors.New("not a non-negative integer")

// ParseCount parses a numeric attribute value. The value is trimmed; it must be
// non-empty, parse to a finite number, and be a non-negative integer.
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errNotCount
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, errNotCount
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotCount
	}
	if f < 0 || f != math.Trunc(f) || f >= maxCount {
		return 0, errNotCount
	}
	return int64(f), nil
}

// itemDecoder reads typed attributes from a raw item, keeping the first failure.
type itemDecoder struct {
	item map[string]types.AttributeValue
	id   string
	err  error
}

func newItemDecoder(item map[string]types.AttributeValue) *itemDecoder {
	d := &itemDecoder{item: item}
	d.id = d.str(AttrID, true)
	return d
}

func (d *itemDecoder) fail(attr, reason string) {
	if d.err == nil {
		d.err = &IntegrityError{ID: d.id, Attribute: attr, Reason: reason}
	}
}

// str reads a string attribute. nonEmpty rejects "".
func (d *itemDecoder) str(attr string, nonEmpty bool) string {
	raw, ok := d.item[attr]
	if !ok {
		d.fail(attr, "missing")
		return ""
	}
	v, ok := raw.(*types.AttributeValueMemberS)
	if !ok {
		d.fail(attr, "expected string")
		return ""
	}
	if nonEmpty && v.Value == "" {
		d.fail(attr, "empty string")
		return ""
	}
	return v.Value
}

// count reads a non-negative integer stored as a number, or as a string holding one.
func (d *itemDecoder) count(attr string) int64 {
	raw, ok := d.item[attr]
	if !ok {
		d.fail(attr, "missing")
		return 0
	}
	var text string
	switch v := raw.(type) {
	case *types.AttributeValueMemberN:
		text = v.Value
	case *types.AttributeValueMemberS:
		text = v.Value
	default:
		d.fail(attr, "expected number")
		return 0
	}
	n, err := ParseCount(text)
	if err != nil {
		d.fail(attr, "expected number, got "+strconv.Quote(text))
		return 0
	}
	return n
}

func (d *itemDecoder) boolean(attr string) bool {
	raw, ok := d.item[attr]
	if !ok {
		d.fail(attr, "missing")
		return false
	}
	v, ok := raw.(*types.AttributeValueMemberBOOL)
	if !ok {
		d.fail(attr, "expected boolean")
		return false
	}
	return v.Value
}

func (d *itemDecoder) summary() Summary {
	return Summary{
		ID:            d.id,
		Name:          d.str(AttrName, true),
		Species:       d.str(AttrSpecies, true),
		GoodEvil:      d.str(AttrGoodEvil, true),
		LawChaos:      d.str(AttrLawChaos, true),
		ThumbImageURI: d.str(AttrThumbImageURI, false),
	}
}

// decodeSummary converts a projected item to a Summary.
func decodeSummary(item map[string]types.AttributeValue) (Summary, error) {
	d := newItemDecoder(item)
	s := d.summary()
	if d.err != nil {
		return Summary{}, d.err
	}
	return s, nil
}

// decodeMysfit converts a full item to a Mysfit.
func decodeMysfit(item map[string]types.AttributeValue) (*Mysfit, error) {
	d := newItemDecoder(item)
	m := &Mysfit{
		Summary:         d.summary(),
		Description:     d.str(AttrDescription, false),
		Age:             d.count(AttrAge),
		ProfileImageURI: d.str(AttrProfileImageURI, false),
		Likes:           d.count(AttrLikes),
		Adopted:         d.boolean(AttrAdopted),
	}
	if d.err != nil {
		return nil, d.err
	}
	return m, nil
}

// decodeSummaries converts a page of items, failing on the first invalid one.
func decodeSummaries(dst []Summary, items []map[string]types.AttributeValue) ([]Summary, error) {
	for _, raw := range items {
		s, err := decodeSummary(raw)
		if err != nil {
			return nil, err
		}
		dst = append(dst, s)
	}
	return dst, nil
}
