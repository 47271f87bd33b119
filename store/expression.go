package store

import (
	"fmt"
	"strings"
)

// summaryAttributes lists the attributes read into a Summary.
var summaryAttributes = []string{
	AttrID,
	AttrName,
	AttrSpecies,
	AttrGoodEvil,
	AttrLawChaos,
	AttrThumbImageURI,
}

// SummaryProjectionExpr returns the projection expression that limits scans and
// queries to summary attributes. Use with SummaryProjectionNames.
func SummaryProjectionExpr() string {
	placeholders := make([]string, len(summaryAttributes))
	for i := range summaryAttributes {
		placeholders[i] = fmt.Sprintf("#p%d", i)
	}
	return strings.Join(placeholders, ", ")
}

// SummaryProjectionNames returns expression attribute names for SummaryProjectionExpr.
func SummaryProjectionNames() map[string]string {
	names := make(map[string]string, len(summaryAttributes))
	for i, attr := range summaryAttributes {
		names[fmt.Sprintf("#p%d", i)] = attr
	}
	return names
}

// ExistsCondition returns the condition expression that makes an update fail instead
// of creating a new item. Use with ExistsNames.
func ExistsCondition() string {
	return "attribute_exists(#id)"
}

// ExistsNames returns expression attribute names for ExistsCondition.
func ExistsNames() map[string]string {
	return map[string]string{"#id": AttrID}
}

// mergeExprNames merges multiple expression attribute name maps.
func mergeExprNames(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}
