package eventbus

// EntityChanged is published after an entity was created or updated.
type EntityChanged[E any] struct {
	Entity E
}

// EntityDeleted is published after an entity was deleted.
type EntityDeleted[E any] struct {
	Entity E
}
