package dialect

// Dialect abstracts the target database's identifier quoting and
// placeholder syntax. Only the PostgreSQL dialect ships; the interface
// keeps the builder and database layers from hard-coding it.
type Dialect interface {
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	ArrayLiteral(elems []any) string
}
