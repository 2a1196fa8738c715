package filter

// Set combines every exclusion source into one decision. Sources are
// consulted in order: the rsync-style chain (an explicit match decides,
// including re-inclusion), then ignore files, then the static rules.
// A zero Set excludes nothing.
type Set struct {
	Chain   *Chain
	Rules   *Rules
	Ignores []*IgnoreFile
}

// Excluded reports whether the entry should be skipped. For directories the
// whole subtree is skipped by the caller.
func (s *Set) Excluded(relPath string, isDir bool, size int64) bool {
	if s == nil {
		return false
	}
	if s.Chain != nil {
		if include, matched := s.Chain.Decide(relPath, isDir, size); matched {
			return !include
		}
	}
	for _, ig := range s.Ignores {
		if ig.Match(relPath, isDir) {
			return true
		}
	}
	return s.Rules != nil && s.Rules.Excluded(relPath, isDir)
}
