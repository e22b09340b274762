package roadmap

import "sort"

// Dataset maps role ids to their graphs. It is constant once built; the
// viewer only ever reads it.
type Dataset struct {
	Roles   []Role           `json:"roles" yaml:"roles" toml:"roles"`
	Graphs  map[RoleID]Graph `json:"graphs" yaml:"graphs" toml:"graphs"`
	Default RoleID           `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

func (d *Dataset) defaultRole() RoleID {
	if d.Default != "" {
		if _, ok := d.Graphs[d.Default]; ok {
			return d.Default
		}
	}
	if _, ok := d.Graphs[DefaultRole]; ok {
		return DefaultRole
	}
	if len(d.Roles) > 0 {
		return d.Roles[0].ID
	}
	return DefaultRole
}

// Resolve returns role when the dataset has a graph for it, and the default
// role otherwise.
func (d *Dataset) Resolve(role RoleID) RoleID {
	if d == nil {
		return DefaultRole
	}
	if _, ok := d.Graphs[role]; ok {
		return role
	}
	return d.defaultRole()
}

// Graph returns the graph owned by role. Unknown roles silently get the
// default role's graph; this is a fallback, not an error.
func (d *Dataset) Graph(role RoleID) Graph {
	if d == nil {
		return Graph{Role: DefaultRole}
	}
	resolved := d.Resolve(role)
	g, ok := d.Graphs[resolved]
	if !ok {
		return Graph{Role: resolved}
	}
	if g.Role == "" {
		g.Role = resolved
	}
	return g
}

// Has reports whether the dataset owns a graph for role.
func (d *Dataset) Has(role RoleID) bool {
	if d == nil {
		return false
	}
	_, ok := d.Graphs[role]
	return ok
}

// Role returns the listing entry for id.
func (d *Dataset) Role(id RoleID) (Role, bool) {
	if d == nil {
		return Role{}, false
	}
	for _, r := range d.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// RoleLabel returns the display label for id, or the id itself.
func (d *Dataset) RoleLabel(id RoleID) string {
	if r, ok := d.Role(id); ok && r.Label != "" {
		return r.Label
	}
	return string(id)
}

// RoleIndex returns the position of id in the role listing, or -1.
func (d *Dataset) RoleIndex(id RoleID) int {
	if d == nil {
		return -1
	}
	for i, r := range d.Roles {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Merge returns a new dataset with other layered over d: graphs and role
// entries with the same id are replaced, new ones are appended in other's
// order. Neither input is modified.
func (d *Dataset) Merge(other *Dataset) *Dataset {
	out := &Dataset{Graphs: make(map[RoleID]Graph)}
	if d != nil {
		out.Default = d.Default
		out.Roles = append(out.Roles, d.Roles...)
		for id, g := range d.Graphs {
			out.Graphs[id] = g
		}
	}
	if other == nil {
		return out
	}
	if other.Default != "" {
		out.Default = other.Default
	}
	for _, r := range other.Roles {
		if i := out.RoleIndex(r.ID); i >= 0 {
			out.Roles[i] = r
			continue
		}
		out.Roles = append(out.Roles, r)
	}
	ids := make([]RoleID, 0, len(other.Graphs))
	for id := range other.Graphs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		g := other.Graphs[id]
		if g.Role == "" {
			g.Role = id
		}
		out.Graphs[id] = g.Normalize()
		if out.RoleIndex(id) < 0 && id != RoleSample {
			out.Roles = append(out.Roles, Role{ID: id, Label: string(id)})
		}
	}
	return out
}

// GraphIDs returns the ids of every graph: listed roles first in listing
// order, then unlisted graphs (such as the showcase map) sorted by id.
func (d *Dataset) GraphIDs() []RoleID {
	if d == nil {
		return nil
	}
	out := make([]RoleID, 0, len(d.Graphs))
	listed := make(map[RoleID]bool, len(d.Roles))
	for _, r := range d.Roles {
		if _, ok := d.Graphs[r.ID]; ok && !listed[r.ID] {
			out = append(out, r.ID)
		}
		listed[r.ID] = true
	}
	var rest []RoleID
	for id := range d.Graphs {
		if !listed[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}
