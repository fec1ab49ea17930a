package redis

const (
	// KeyPrefixNote is the prefix for note row keys
	KeyPrefixNote = "clipnote:note:"
	// KeyPrefixOwner is the prefix for per-owner note id sets
	KeyPrefixOwner = "clipnote:owner:"
)

// NoteKey returns the Redis key for a note row by id
func NoteKey(id string) string {
	return KeyPrefixNote + id
}

// OwnerNotesKey returns the key of the set holding an owner's note ids
func OwnerNotesKey(owner string) string {
	return KeyPrefixOwner + owner + ":notes"
}
