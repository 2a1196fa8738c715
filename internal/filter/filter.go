package filter

// Rule represents a single include or exclude filter rule.
type Rule struct {
	Pattern *compiledPattern
	Include bool // true=include, false=exclude
}

// Chain holds an ordered list of filter rules plus size filters.
type Chain struct {
	rules   []Rule
	minSize int64
	maxSize int64
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude appends a rule excluding paths that match pattern.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude appends a rule re-including paths that match pattern, even
// ones the static rules or ignore files would drop.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	cp, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: cp, Include: include})
	return nil
}

// SetMinSize sets the minimum file size filter.
func (c *Chain) SetMinSize(n int64) {
	c.minSize = n
}

// SetMaxSize sets the maximum file size filter.
func (c *Chain) SetMaxSize(n int64) {
	c.maxSize = n
}

// Empty reports whether the chain has no rules and no size filters.
func (c *Chain) Empty() bool {
	return len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0
}

// Decide evaluates the chain for one entry. matched is false when neither a
// size filter nor any rule applied, leaving the decision to other sources.
// relPath is slash separated and relative to the merge root.
func (c *Chain) Decide(relPath string, isDir bool, size int64) (include, matched bool) {
	// Size filters apply only to non-directories.
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false, true
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false, true
		}
	}

	// First match wins.
	for _, rule := range c.rules {
		if rule.Pattern.match(relPath, isDir) {
			return rule.Include, true
		}
	}

	return true, false
}

// keeps reports whether the chain on its own keeps the entry.
func (c *Chain) keeps(relPath string, isDir bool, size int64) bool {
	include, _ := c.Decide(relPath, isDir, size)
	return include
}
