package mouse

// Capture records which interaction currently owns the pointer. While it is
// held, motion and release events belong to the owner regardless of where
// they land. The zero value is free.
type Capture struct {
	owner string
	gen   uint64
}

// Guard is the handle returned by Acquire. Releasing it frees the capture
// unless a newer guard has taken over.
type Guard struct {
	c   *Capture
	gen uint64
}

// Acquire takes the capture for owner, superseding any current holder.
func (c *Capture) Acquire(owner string) Guard {
	c.gen++
	c.owner = owner
	return Guard{c: c, gen: c.gen}
}

// Held reports whether any guard is active.
func (c *Capture) Held() bool {
	return c != nil && c.owner != ""
}

// Owner returns the name passed to the active Acquire.
func (c *Capture) Owner() string {
	if c == nil {
		return ""
	}
	return c.owner
}

// Release frees the capture. It is safe to call more than once and on the
// zero Guard.
func (g Guard) Release() {
	if g.c == nil || g.c.gen != g.gen {
		return
	}
	g.c.owner = ""
}
