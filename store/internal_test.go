package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --- ParseCount Tests ---

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"  7\t", 7, false},
		{"3.0", 3, false},
		{"1e3", 1000, false},
		{"9223372036854775807", 9223372036854775807, false},
		{"", 0, true},
		{"   ", 0, true},
		{"-1", 0, true},
		{"-0.5", 0, true},
		{"2.5", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"1e300", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// --- Expression Tests ---

func TestSummaryProjection(t *testing.T) {
	expr := SummaryProjectionExpr()
	names := SummaryProjectionNames()

	placeholders := strings.Split(expr, ", ")
	if len(placeholders) != len(summaryAttributes) {
		t.Fatalf("expected %d placeholders, got %q", len(summaryAttributes), expr)
	}

	var resolved []string
	for _, p := range placeholders {
		attr, ok := names[p]
		if !ok {
			t.Fatalf("placeholder %s has no attribute name", p)
		}
		resolved = append(resolved, attr)
	}

	want := "MysfitId,Name,Species,GoodEvil,LawChaos,ThumbImageUri"
	if got := strings.Join(resolved, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestExistsCondition(t *testing.T) {
	if ExistsCondition() != "attribute_exists(#id)" {
		t.Errorf("unexpected condition %q", ExistsCondition())
	}
	if ExistsNames()["#id"] != AttrID {
		t.Errorf("expected #id to name %s", AttrID)
	}
}

func TestMergeExprNames(t *testing.T) {
	merged := mergeExprNames(
		map[string]string{"#a": "A"},
		nil,
		map[string]string{"#b": "B", "#a": "A2"},
	)
	if len(merged) != 2 {
		t.Fatalf("expected 2 names, got %d", len(merged))
	}
	if merged["#a"] != "A2" || merged["#b"] != "B" {
		t.Errorf("unexpected merge result %v", merged)
	}
}

// --- Filter Tests ---

func TestParseFilter(t *testing.T) {
	for _, f := range Filters {
		got, err := ParseFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %q, %v", f, got, err)
		}
	}

	for _, s := range []string{"", "goodevil", "LAWCHAOS", "Species", "GoodEvil "} {
		if _, err := ParseFilter(s); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("ParseFilter(%q): expected ErrInvalidFilter, got %v", s, err)
		}
	}
}

func TestIndexFor(t *testing.T) {
	cfg := Config{GoodEvilIndex: "ge", LawChaosIndex: "lc"}

	if got := cfg.indexFor(FilterGoodEvil); got != "ge" {
		t.Errorf("expected ge, got %s", got)
	}
	if got := cfg.indexFor(FilterLawChaos); got != "lc" {
		t.Errorf("expected lc, got %s", got)
	}
	if FilterGoodEvil.Attribute() != AttrGoodEvil || FilterLawChaos.Attribute() != AttrLawChaos {
		t.Error("filter attributes do not match index partition keys")
	}
	if Filter("Species").Attribute() != "" {
		t.Error("expected no attribute for an unknown filter")
	}
}

// --- Decoder Tests ---

func summaryItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrID:            &types.AttributeValueMemberS{Value: "m1"},
		AttrName:          &types.AttributeValueMemberS{Value: "Blanche"},
		AttrSpecies:       &types.AttributeValueMemberS{Value: "Troll"},
		AttrGoodEvil:      &types.AttributeValueMemberS{Value: "Good"},
		AttrLawChaos:      &types.AttributeValueMemberS{Value: "Lawful"},
		AttrThumbImageURI: &types.AttributeValueMemberS{Value: ""},
	}
}

func TestDecodeSummary(t *testing.T) {
	s, err := decodeSummary(summaryItem())
	if err != nil {
		t.Fatalf("decodeSummary failed: %v", err)
	}
	if s.ID != "m1" || s.Name != "Blanche" || s.ThumbImageURI != "" {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestDecodeSummary_KeepsFirstFailure(t *testing.T) {
	item := summaryItem()
	delete(item, AttrName)
	item[AttrSpecies] = &types.AttributeValueMemberBOOL{Value: true}

	_, err := decodeSummary(item)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IntegrityError, got %v", err)
	}
	if ie.Attribute != AttrName || ie.Reason != "missing" {
		t.Errorf("expected Name missing, got %s %s", ie.Attribute, ie.Reason)
	}
}

func TestDecodeSummary_MissingID(t *testing.T) {
	item := summaryItem()
	delete(item, AttrID)

	_, err := decodeSummary(item)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IntegrityError, got %v", err)
	}
	if ie.ID != "" || ie.Attribute != AttrID {
		t.Errorf("unexpected integrity error %+v", ie)
	}
	if !strings.Contains(err.Error(), "attribute MysfitId: missing") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDecodeSummaries_Empty(t *testing.T) {
	got, err := decodeSummaries([]Summary{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := storeError("scan", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("expected ErrStoreUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to remain in chain")
	}
	if err.Error() != "mysfits: record store unavailable: scan: connection reset" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
