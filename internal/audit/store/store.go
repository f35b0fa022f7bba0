package store

import (
	"context"

	"trustnest/internal/audit"
)

// Store persists audit entries. Append must complete before the admin
// operation that produced it reports success; when the context carries a
// transaction the append joins it so both commit together.
type Store interface {
	Append(ctx context.Context, entry *audit.Entry) error
	List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error)
}
