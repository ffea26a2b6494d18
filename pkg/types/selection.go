package types

import "github.com/google/uuid"

// SelectedCustomization records the chosen options of one group.
type SelectedCustomization struct {
	GroupID   uuid.UUID   `json:"group_id"`
	OptionIDs []uuid.UUID `json:"option_ids"`
}

// Selection is ordered by first touch of each group; that order is the display order.
type Selection []SelectedCustomization

// Index returns the position of the entry for groupID, or -1.
func (s Selection) Index(groupID uuid.UUID) int {
	for i, entry := range s {
		if entry.GroupID == groupID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	for i, entry := range s {
		ids := make([]uuid.UUID, len(entry.OptionIDs))
		copy(ids, entry.OptionIDs)
		out[i] = SelectedCustomization{GroupID: entry.GroupID, OptionIDs: ids}
	}
	return out
}
