package domain

// UnnamedGroupName is the placeholder written when a group is first
// registered, before anyone runs the naming command.
const UnnamedGroupName = "未命名群組"

// GroupRecord is one registry row for a chat group the bot has joined.
type GroupRecord struct {
	Row      int // 1-based sheet row, header occupies row 1
	Name     string
	GroupID  string
	JoinedAt string
	Note     string
	Named    bool
}

// IsUnnamed reports whether the group still carries the placeholder name.
func (g *GroupRecord) IsUnnamed() bool {
	return !g.Named
}
