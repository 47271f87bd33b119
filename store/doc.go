// Package store provides the DynamoDB data access layer for mysfit records.
//
// The table stores one item per mysfit, keyed by MysfitId, with two global
// secondary indexes partitioned on the alignment attributes (GoodEvil and
// LawChaos). Store is the only code that sees raw attribute values: every item
// read is validated and converted to a [Mysfit] or [Summary] before it leaves
// the package.
//
// # Operations
//
//   - [Store.Get] fetches one mysfit by id
//   - [Store.Scan] lists summaries of every mysfit
//   - [Store.QueryByIndex] lists summaries matching an alignment [Filter]
//   - [Store.IncrementLikes] atomically adds one like
//   - [Store.Adopt] marks a mysfit as adopted (idempotent)
//
// # Attribute typing
//
// String attributes must be DynamoDB strings. Age and Likes may be numbers or
// strings holding a number; after trimming, the text must parse to a finite,
// non-negative integer (see [ParseCount]). Adopted must be a boolean. An item
// missing an attribute or holding the wrong type yields an [*IntegrityError].
//
// # Configuration
//
// Use [DefaultConfig] for the standard table and index names:
//
//	s := store.New(dynamodb.NewFromConfig(awsCfg), store.DefaultConfig())
//
// # Errors
//
//   - [ErrNotFound] - no mysfit with that id
//   - [ErrInvalidFilter] - filter is not GoodEvil or LawChaos
//   - [ErrMissingValue] - filter given without a value
//   - [ErrDataIntegrity] - stored item failed validation
//   - [ErrStoreUnavailable] - DynamoDB call failed; not retried here
package store
