// Package storage provides the durable key-value slots the tracker keeps
// its state in. The services take the Store interface, so persistence
// failure and reload behavior are testable without a database.
package storage

const (
	// KeyProfile holds the serialized user profile.
	KeyProfile = "userProfile"
	// KeyLedger holds the serialized daily ledger.
	KeyLedger = "dailyData"
)

// Store is an opaque durable slot store. Get reports absence via the bool,
// not an error. Set overwrites the slot wholesale.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
