package parser

import "time"

// SetNow overrides the FallbackParser clock for external tests.
func (f *FallbackParser) SetNow(now func() time.Time) { f.now = now }

// MergeValue exposes mergeValue to external tests.
var MergeValue = mergeValue
