package seed_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/mysfits/internal/memtable"
	"github.com/jacentio/mysfits/internal/seed"
)

const sample = `[
  {
    "MysfitId": "4e53920c-505a-4a90-a694-b9300791f0ae",
    "Name": "Evangeline",
    "Species": "Chimera",
    "Description": "Evangeline is the global sophisticate.",
    "Age": 43,
    "GoodEvil": "Evil",
    "LawChaos": "Lawful",
    "ThumbImageUri": "https://example.com/evangeline_thumb.png",
    "ProfileImageUri": "https://example.com/evangeline_hover.png",
    "Likes": 0,
    "Adopted": false
  },
  {
    "MysfitId": "2b473002-36f8-4b87-954e-9a377e0ccbec",
    "Name": "Pauly",
    "Species": "Cyclops",
    "Description": "Naturally needy.",
    "Age": 2,
    "GoodEvil": "Neutral",
    "LawChaos": "Neutral",
    "ThumbImageUri": "https://example.com/pauly_thumb.png",
    "ProfileImageUri": "https://example.com/pauly_hover.png",
    "Likes": 0,
    "Adopted": false
  }
]`

func TestLoad(t *testing.T) {
	mysfits, err := seed.Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(mysfits) != 2 {
		t.Fatalf("expected 2 mysfits, got %d", len(mysfits))
	}
	m := mysfits[0]
	if m.ID != "4e53920c-505a-4a90-a694-b9300791f0ae" || m.Name != "Evangeline" || m.Age != 43 {
		t.Errorf("unexpected first mysfit: %+v", m)
	}
	if m.ThumbImageURI != "https://example.com/evangeline_thumb.png" {
		t.Errorf("expected thumb uri to be decoded, got %q", m.ThumbImageURI)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", `{`, "decode"},
		{"not an array", `{"MysfitId":"a"}`, "decode"},
		{"missing id", `[{"Name":"n","Species":"s","GoodEvil":"Good","LawChaos":"Lawful"}]`, "MysfitId is required"},
		{"missing species", `[{"MysfitId":"a","Name":"n","GoodEvil":"Good","LawChaos":"Lawful"}]`, "Species is required"},
		{"negative age", `[{"MysfitId":"a","Name":"n","Species":"s","GoodEvil":"Good","LawChaos":"Lawful","Age":-1}]`, "Age must not be negative"},
		{"duplicate id", `[
			{"MysfitId":"a","Name":"n","Species":"s","GoodEvil":"Good","LawChaos":"Lawful"},
			{"MysfitId":"a","Name":"m","Species":"s","GoodEvil":"Evil","LawChaos":"Chaotic"}
		]`, "duplicate MysfitId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Load(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestItem(t *testing.T) {
	item, err := seed.Item(seed.Mysfit{
		ID:       "m1",
		Name:     "Blanche",
		Species:  "Troll",
		GoodEvil: "Good",
		LawChaos: "Lawful",
		Age:      6,
		Likes:    3,
	})
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}

	id, ok := item["MysfitId"].(*types.AttributeValueMemberS)
	if !ok || id.Value != "m1" {
		t.Errorf("expected MysfitId S=m1, got %#v", item["MysfitId"])
	}
	likes, ok := item["Likes"].(*types.AttributeValueMemberN)
	if !ok || likes.Value != "3" {
		t.Errorf("expected Likes N=3, got %#v", item["Likes"])
	}
	adopted, ok := item["Adopted"].(*types.AttributeValueMemberBOOL)
	if !ok || adopted.Value {
		t.Errorf("expected Adopted BOOL=false, got %#v", item["Adopted"])
	}
}

func mysfits(n int) []seed.Mysfit {
	out := make([]seed.Mysfit, n)
	for i := range out {
		out[i] = seed.Mysfit{
			ID:       fmt.Sprintf("m%03d", i),
			Name:     fmt.Sprintf("Mysfit %d", i),
			Species:  "Troll",
			GoodEvil: "Good",
			LawChaos: "Lawful",
		}
	}
	return out
}

func TestWrite_Chunks(t *testing.T) {
	table := memtable.New("MysfitsTable", "MysfitId")

	if err := seed.Write(context.Background(), table, "MysfitsTable", mysfits(60)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if table.Len() != 60 {
		t.Errorf("expected 60 items, got %d", table.Len())
	}
	if calls := table.Calls("BatchWriteItem"); calls != 3 {
		t.Errorf("expected 3 batch calls for 60 items, got %d", calls)
	}
}

func TestWrite_RetriesUnprocessed(t *testing.T) {
	table := memtable.New("MysfitsTable", "MysfitId")
	table.MaxBatchWrites = 10

	if err := seed.Write(context.Background(), table, "MysfitsTable", mysfits(25)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if table.Len() != 25 {
		t.Errorf("expected 25 items, got %d", table.Len())
	}
	if calls := table.Calls("BatchWriteItem"); calls != 3 {
		t.Errorf("expected 3 calls to drain 25 items at 10 per call, got %d", calls)
	}
}

func TestWrite_GivesUp(t *testing.T) {
	table := memtable.New("MysfitsTable", "MysfitId")
	table.MaxBatchWrites = 1

	err := seed.Write(context.Background(), table, "MysfitsTable", mysfits(10))
	if !errors.Is(err, seed.ErrUnprocessed) {
		t.Fatalf("expected ErrUnprocessed, got %v", err)
	}
}

func TestWrite_ClientError(t *testing.T) {
	table := memtable.New("MysfitsTable", "MysfitId")
	boom := errors.New("boom")
	table.FailWith(boom)

	err := seed.Write(context.Background(), table, "MysfitsTable", mysfits(1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestWrite_Empty(t *testing.T) {
	table := memtable.New("MysfitsTable", "MysfitId")

	if err := seed.Write(context.Background(), table, "MysfitsTable", nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if table.TotalCalls() != 0 {
		t.Errorf("expected no calls for empty input, got %d", table.TotalCalls())
	}
}
