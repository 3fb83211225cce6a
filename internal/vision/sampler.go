package vision

// SamplePolicy decides which eligible inbound events to keep. The index is
// the per-connection arrival position, starting at zero.
type SamplePolicy interface {
    Keep(index int) bool
}

// StridePolicy retains every Nth event (positions 0, N, 2N, ...), a lossy
// load-shedding policy: downstream consumers see at most 1/N of the stream.
type StridePolicy struct {
    N int
}

func (p StridePolicy) Keep(index int) bool {
    if p.N <= 1 {
        return true
    }
    return index%p.N == 0
}
