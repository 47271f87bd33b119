package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// DynamoDB attribute names of a mysfit item.
const (
	AttrID              = "MysfitId"
	AttrName            = "Name"
	AttrSpecies         = "Species"
	AttrGoodEvil        = "GoodEvil"
	AttrLawChaos        = "LawChaos"
	AttrThumbImageURI   = "ThumbImageUri"
	AttrProfileImageURI = "ProfileImageUri"
	AttrDescription     = "Description"
	AttrAge             = "Age"
	AttrLikes           = "Likes"
	AttrAdopted         = "Adopted"
)

// KeyFor returns the primary key of the mysfit with the given id.
func KeyFor(id string) PK {
	return PK{AttrID: &types.AttributeValueMemberS{Value: id}}
}

// Summary is the projection of a mysfit returned by list operations.
type Summary struct {
	ID            string `json:"mysfitId"`
	Name          string `json:"name"`
	Species       string `json:"species"`
	GoodEvil      string `json:"goodevil"`
	LawChaos      string `json:"lawchaos"`
	ThumbImageURI string `json:"thumbImageUri"`
}

// Mysfit is a complete creature record.
type Mysfit struct {
	Summary

	Description     string `json:"description"`
	Age             int64  `json:"age"`
	ProfileImageURI string `json:"profileImageUri"`
	Likes           int64  `json:"likes"`
	Adopted         bool   `json:"adopted"`
}

// Filter names a secondary index usable to list mysfits by alignment.
type Filter string

const (
	FilterGoodEvil Filter = "GoodEvil"
	FilterLawChaos Filter = "LawChaos"
)

// Filters lists every permitted filter.
var Filters = []Filter{FilterGoodEvil, FilterLawChaos}

// ParseFilter returns the Filter named by s, or ErrInvalidFilter.
// Matching is exact and case-sensitive.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !f.Valid() {
		return "", ErrInvalidFilter
	}
	return f, nil
}

// Valid reports whether f is one of the permitted filters.
func (f Filter) Valid() bool {
	return f == FilterGoodEvil || f == FilterLawChaos
}

// Attribute returns the DynamoDB attribute the filter's index is partitioned on.
func (f Filter) Attribute() string {
	switch f {
	case FilterGoodEvil:
		return AttrGoodEvil
	case FilterLawChaos:
		return AttrLawChaos
	}
	return ""
}
