package literal

import "github.com/zhangjinde/foundation-regex/syntax"

// LeadingClassRange reports the contiguous byte range every match of the
// pattern must start with, when its leading element is a class whose
// accepted set forms one unbroken run. It serves classes too wide to
// expand into literals, like [a-z] or \d, where scanning for the range
// is still far cheaper than attempting every offset.
//
// The walk is conservative: it only descends through structure that
// cannot put a different byte first, and gives up everywhere else.
func LeadingClassRange(re *syntax.Regexp) (lo, hi byte, ok bool) {
	cc := leadingClass(re, 0)
	if cc == nil {
		return 0, 0, false
	}
	return classAsRange(cc)
}

func leadingClass(re *syntax.Regexp, depth int) *syntax.CharClass {
	if re == nil || depth > maxExtractDepth {
		return nil
	}
	switch re.Op {
	case syntax.OpClass:
		return re.Class
	case syntax.OpCapture:
		return leadingClass(re.Sub[0], depth+1)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if sub.Op == syntax.OpBeginText {
				continue
			}
			return leadingClass(sub, depth+1)
		}
		return nil
	case syntax.OpRepeat:
		if re.Min >= 1 {
			// The first iteration is mandatory, so its first byte is
			// the pattern's first byte.
			return leadingClass(re.Sub[0], depth+1)
		}
	}
	return nil
}

// classAsRange condenses a class to one inclusive byte range. Sets with
// holes are rejected, as are sets covering more than half the byte
// space, which would pass too much of the subject to be worth a scan.
func classAsRange(cc *syntax.CharClass) (lo, hi byte, ok bool) {
	count := 0
	first, last := 0, 0
	for b := 0; b < 256; b++ {
		if !cc.Matches(byte(b)) {
			continue
		}
		if count == 0 {
			first = b
		}
		last = b
		count++
	}
	if count == 0 || count != last-first+1 || count > 128 {
		return 0, 0, false
	}
	return byte(first), byte(last), true
}
