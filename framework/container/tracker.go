package container

// creationChain records the beans under construction for one resolution
// call tree. Each public lookup starts a fresh chain; nested lookups made
// through a Resolver share it, which is how in-flight cycles are caught
// before they recurse forever.
type creationChain struct {
	names []string
	index map[string]struct{}
}

func newCreationChain() *creationChain {
	return &creationChain{index: make(map[string]struct{})}
}

// begin pushes name onto the chain. It reports false, without pushing, when
// the name is already in flight.
func (c *creationChain) begin(name string) bool {
	if _, ok := c.index[name]; ok {
		return false
	}
	c.names = append(c.names, name)
	c.index[name] = struct{}{}
	return true
}

// end pops name. Pops happen in strict reverse order of begins, so only the
// tail is ever removed.
func (c *creationChain) end(name string) {
	if n := len(c.names); n > 0 && c.names[n-1] == name {
		c.names = c.names[:n-1]
	}
	delete(c.index, name)
}

// snapshot returns a copy of the in-flight names, oldest first.
func (c *creationChain) snapshot() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *creationChain) depth() int { return len(c.names) }
