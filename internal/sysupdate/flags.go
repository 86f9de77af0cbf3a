package sysupdate

// FlagOffline is the only flag bit List/Describe accept (spec.md §4.1:
// "Flags permit only an offline bit").
const FlagOffline uint64 = 1 << 0

// ParseOfflineFlags validates a flags bitmask that may only carry
// FlagOffline, returning ErrInvalidArgs for any other bit set.
func ParseOfflineFlags(flags uint64) (offline bool, err error) {
	if flags&^FlagOffline != 0 {
		return false, ErrInvalidArgs
	}
	return flags&FlagOffline != 0, nil
}

// RequireZeroFlags validates a flags bitmask that must be zero (spec.md
// §4.1: "Update(version, flags) ... Flags must be zero.").
func RequireZeroFlags(flags uint64) error {
	if flags != 0 {
		return ErrInvalidArgs
	}
	return nil
}
