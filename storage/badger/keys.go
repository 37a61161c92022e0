package badger

// Key prefixes for different data types
const (
	articlePrefix  = "article"
	titleIdxPrefix = "titleidx"
)

// makeArticleKey generates the primary key for an article record.
func makeArticleKey(urlHash string) []byte {
	return []byte(articlePrefix + ":" + urlHash)
}

// makeTitleIndexKey generates a composite key for the title-hash
// secondary index. Format: prefix:titleHash:urlHash, empty value.
func makeTitleIndexKey(titleHash, urlHash string) []byte {
	return []byte(titleIdxPrefix + ":" + titleHash + ":" + urlHash)
}

// makePartialTitleIndexKey generates the iteration prefix for all index
// entries of one title hash.
func makePartialTitleIndexKey(titleHash string) []byte {
	return []byte(titleIdxPrefix + ":" + titleHash + ":")
}

// articleKeyPrefix is the iteration prefix for article records.
func articleKeyPrefix() []byte {
	return []byte(articlePrefix + ":")
}

// urlHashFromArticleKey strips the article prefix from a key.
// Returns "" for keys outside the article keyspace.
func urlHashFromArticleKey(key []byte) string {
	prefix := articlePrefix + ":"
	if len(key) <= len(prefix) || string(key[:len(prefix)]) != prefix {
		return ""
	}
	return string(key[len(prefix):])
}
