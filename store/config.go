package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding mysfits.
	// Default: "MysfitsTable"
	TableName string

	// GoodEvilIndex is the GSI partitioned on the GoodEvil attribute.
	// Default: "GoodEvilIndex"
	GoodEvilIndex string

	// LawChaosIndex is the GSI partitioned on the LawChaos attribute.
	// Default: "LawChaosIndex"
	LawChaosIndex string

	// ConsistentRead requests strongly consistent reads for Get and Scan.
	// Global secondary indexes only support eventual consistency, so QueryByIndex ignores it.
	ConsistentRead bool
}

// DefaultConfig returns the table and index names used by the Mythical Mysfits stack.
func DefaultConfig() Config {
	return Config{
		TableName:     "MysfitsTable",
		GoodEvilIndex: "GoodEvilIndex",
		LawChaosIndex: "LawChaosIndex",
	}
}

// validate fills unset names with their defaults.
func (c *Config) validate() {
	def := DefaultConfig()
	if c.TableName == "" {
		c.TableName = def.TableName
	}
	if c.GoodEvilIndex == "" {
		c.GoodEvilIndex = def.GoodEvilIndex
	}
	if c.LawChaosIndex == "" {
		c.LawChaosIndex = def.LawChaosIndex
	}
}

// indexFor returns the GSI backing a filter. The filter must already be valid.
func (c *Config) indexFor(f Filter) string {
	if f == FilterLawChaos {
		return c.LawChaosIndex
	}
	return c.GoodEvilIndex
}
