package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/mysfits/query"
	"github.com/jacentio/mysfits/store"
)

// recordingLister records which read was chosen.
type recordingLister struct {
	scans   int
	queries []string
	err     error
}

func (l *recordingLister) Scan(ctx context.Context) ([]store.Summary, error) {
	l.scans++
	if l.err != nil {
		return nil, l.err
	}
	return []store.Summary{{ID: "all"}}, nil
}

func (l *recordingLister) QueryByIndex(ctx context.Context, filter store.Filter, value string) ([]store.Summary, error) {
	l.queries = append(l.queries, string(filter)+"="+value)
	if l.err != nil {
		return nil, l.err
	}
	return []store.Summary{{ID: string(filter) + ":" + value}}, nil
}

func (l *recordingLister) calls() int {
	return l.scans + len(l.queries)
}

func TestList_NoFilterScans(t *testing.T) {
	for _, value := range []string{"", "Good"} {
		lister := &recordingLister{}
		r := query.NewRouter(lister)

		got, err := r.List(context.Background(), "", value)
		require.NoError(t, err)
		assert.Equal(t, []store.Summary{{ID: "all"}}, got)
		assert.Equal(t, 1, lister.scans)
		assert.Empty(t, lister.queries)
	}
}

func TestList_ValidFilterQueries(t *testing.T) {
	lister := &recordingLister{}
	r := query.NewRouter(lister)

	got, err := r.List(context.Background(), "GoodEvil", "Good")
	require.NoError(t, err)
	assert.Equal(t, []store.Summary{{ID: "GoodEvil:Good"}}, got)

	_, err = r.List(context.Background(), "LawChaos", "Chaotic")
	require.NoError(t, err)

	assert.Equal(t, []string{"GoodEvil=Good", "LawChaos=Chaotic"}, lister.queries)
	assert.Zero(t, lister.scans)
}

func TestList_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		value  string
		want   error
	}{
		{"unknown filter", "Unknown", "x", store.ErrInvalidFilter},
		{"unknown filter without value", "Species", "", store.ErrInvalidFilter},
		{"wrong case", "goodevil", "Good", store.ErrInvalidFilter},
		{"missing value", "GoodEvil", "", store.ErrMissingValue},
		{"missing value law chaos", "LawChaos", "", store.ErrMissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &recordingLister{}
			r := query.NewRouter(lister)

			got, err := r.List(context.Background(), tt.filter, tt.value)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
			assert.Zero(t, lister.calls(), "invalid input must not reach the store")
		})
	}
}

func TestList_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	lister := &recordingLister{err: boom}
	r := query.NewRouter(lister)

	_, err := r.List(context.Background(), "", "")
	assert.ErrorIs(t, err, boom)

	_, err = r.List(context.Background(), "LawChaos", "Lawful")
	assert.ErrorIs(t, err, boom)
}

func TestProperty_InvalidFiltersNeverReachStore(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("any unsupported filter fails before the store", prop.ForAll(
		func(filter, value string) bool {
			lister := &recordingLister{}
			_, err := query.NewRouter(lister).List(context.Background(), filter, value)
			return errors.Is(err, store.ErrInvalidFilter) && lister.calls() == 0
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return s != "" && !store.Filter(s).Valid()
		}),
		gen.AnyString(),
	))

	properties.Property("a valid filter without value fails before the store", prop.ForAll(
		func(i int) bool {
			lister := &recordingLister{}
			_, err := query.NewRouter(lister).List(context.Background(), string(store.Filters[i]), "")
			return errors.Is(err, store.ErrMissingValue) && lister.calls() == 0
		},
		gen.IntRange(0, len(store.Filters)-1),
	))

	properties.TestingRun(t)
}
