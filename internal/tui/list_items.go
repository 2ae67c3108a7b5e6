package tui

import (
	"foldsort/internal/renumber"

	"github.com/charmbracelet/bubbles/list"
)

// folderItem is one row in the folder list: the entry plus the name it
// would get if the pending order were applied now.
type folderItem struct {
	entry  renumber.Entry
	target string
}

func (i folderItem) FilterValue() string { return i.entry.CurrentName }

// changes reports whether applying would rename this folder.
func (i folderItem) changes() bool {
	return !i.entry.Reserved && i.target != "" && i.target != i.entry.CurrentName
}

// folderItems builds list rows from an ordered entry slice and its plan.
func folderItems(entries []renumber.Entry, plan renumber.Plan) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		target, _ := plan.TargetFor(e.CurrentName)
		items = append(items, folderItem{entry: e, target: target})
	}
	return items
}
