package conv

// IsPow2 reports whether v is a non-zero power of two.
func IsPow2(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// AlignUp rounds v up to the next multiple of align.
// align must be a power of two.
func AlignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

// AlignDown rounds v down to a multiple of align.
// align must be a power of two.
func AlignDown(v, align uint64) uint64 {
	return v &^ (align - 1)
}
