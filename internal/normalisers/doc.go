// Package normalisers provides content cleaners for harvested post bodies.
// Each cleaner knows how to reduce one markup format to readable text.
//
// Cleaners are composed with Chain and handed to the indexer, which applies
// them to the Content field before rendering and chunking.
package normalisers

// Cleaner reduces marked-up text to plain text.
type Cleaner interface {
	// Name identifies the cleaner in logs.
	Name() string

	// Clean returns the plain text form of content.
	Clean(content string) string
}

// Chain returns a func that applies cleaners in order.
// Nil cleaners are skipped.
func Chain(cleaners ...Cleaner) func(string) string {
	return func(content string) string {
		for _, c := range cleaners {
			if c != nil {
				content = c.Clean(content)
			}
		}
		return content
	}
}
