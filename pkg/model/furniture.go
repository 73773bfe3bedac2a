package model

// FurnitureItem is one placed piece of furniture.
type FurnitureItem struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Position Vec3    `json:"position"`
	Rotation float64 `json:"rotation"` // yaw in radians, [0, 2π)
	Size     Size    `json:"size"`
	Color    string  `json:"color"`
	Name     string  `json:"name"`
}

// FurniturePatch carries the fields an update replaces. Nil fields are left
// untouched.
type FurniturePatch struct {
	Position *Vec3    `json:"position,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Size     *Size    `json:"size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Name     *string  `json:"name,omitempty"`
}

// Apply returns a copy of item with the patch merged in.
func (p FurniturePatch) Apply(item FurnitureItem) FurnitureItem {
	if p.Position != nil {
		item.Position = *p.Position
	}
	if p.Rotation != nil {
		item.Rotation = *p.Rotation
	}
	if p.Size != nil {
		item.Size = *p.Size
	}
	if p.Color != nil {
		item.Color = *p.Color
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	return item
}

// Normalized returns item with its yaw in [0, 2π) and every size axis at
// least MinDimension.
func (item FurnitureItem) Normalized() FurnitureItem {
	item.Rotation = NormalizeAngle(item.Rotation)
	item.Size = item.Size.Clamp()
	return item
}

// CloneItems returns an independent copy of items. A nil input yields an
// empty, non-nil slice so JSON output is [] rather than null.
func CloneItems(items []FurnitureItem) []FurnitureItem {
	out := make([]FurnitureItem, len(items))
	copy(out, items)
	return out
}
