package syntax

// Text hashes are polynomial hashes modulo 2^64 so that the hash of a
// composite can be derived from its children without touching their text:
//
//	hash(a+b) = hash(a)*base^len(b) + hash(b)
//
// A collapsed chameleon and its expanded form therefore hash identically.
const hashBase uint64 = 1099511628211

// hashString returns the text hash of s.
func hashString(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*hashBase + uint64(s[i])
	}
	return h
}

// hashConcat combines the hash of a prefix with the hash of a suffix of
// length suffixLen.
func hashConcat(prefix uint64, suffix uint64, suffixLen int) uint64 {
	return prefix*hashPow(suffixLen) + suffix
}

// hashPow returns base^n modulo 2^64.
func hashPow(n int) uint64 {
	result := uint64(1)
	b := hashBase
	for n > 0 {
		if n&1 == 1 {
			result *= b
		}
		b *= b
		n >>= 1
	}
	return result
}
