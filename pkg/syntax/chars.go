package syntax

// CharTable interns leaf text so that identical tokens share storage.
// A table belongs to exactly one live tree; replacing a tree root swaps the
// table together with the root.
type CharTable struct {
	strings map[string]string
	bytes   int
}

// NewCharTable creates an empty table.
func NewCharTable() *CharTable {
	return &CharTable{strings: make(map[string]string)}
}

// Intern returns the canonical copy of s.
func (c *CharTable) Intern(s string) string {
	if s == "" {
		return ""
	}
	if canonical, ok := c.strings[s]; ok {
		return canonical
	}
	c.strings[s] = s
	c.bytes += len(s)
	return s
}

// Len returns the number of distinct interned strings.
func (c *CharTable) Len() int {
	return len(c.strings)
}

// Bytes returns the total size of interned text.
func (c *CharTable) Bytes() int {
	return c.bytes
}
