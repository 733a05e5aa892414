package rules

import "github.com/refixlabs/refix/checker"

// Default returns the checkers the engine registers out of the box.
func Default() []checker.Checker {
	return []checker.Checker{
		NewEagerSprintf(),
		NewComplexity(DefaultComplexityThreshold),
	}
}
