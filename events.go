package finance

// Op names the kind of mutation an Event reports.
type Op int

const (
	OpAdd Op = iota
	OpTransfer
	OpUpdate
	OpDelete
	OpReconcile
	OpCatalog
	OpSettings
	OpImport
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpTransfer:
		return "transfer"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpReconcile:
		return "reconcile"
	case OpCatalog:
		return "catalog"
	case OpSettings:
		return "settings"
	case OpImport:
		return "import"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after every mutation.
type Event struct {
	Op Op
	// IDs are the transactions or entries touched by the mutation.
	IDs     []string
	Summary Summary
	// Err is a *PersistenceError when the mutation was kept in memory but not saved.
	Err error
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called after every mutation, in subscription
// order, on the goroutine that performed the mutation. The returned function
// cancels the subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(e Event) {
	// Subscribers may cancel while being notified.
	subs := s.subs
	for _, sub := range subs {
		sub.fn(e)
	}
}
