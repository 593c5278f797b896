package tui

import "github.com/runoshun/schedule/internal/domain"

// Msg is the closed set of messages produced by board commands.
type Msg interface {
	sealed()
}

// MsgItemsLoaded carries the rows of the active tab.
type MsgItemsLoaded struct {
	Items []domain.Item
	Tab   Tab
}

func (MsgItemsLoaded) sealed() {}

// MsgDetailLoaded carries a single item opened for viewing.
type MsgDetailLoaded struct {
	Item domain.Item
	Err  error
}

func (MsgDetailLoaded) sealed() {}

// MsgItemDeleted reports the outcome of a delete.
type MsgItemDeleted struct {
	Err error
	ID  int
}

func (MsgItemDeleted) sealed() {}
