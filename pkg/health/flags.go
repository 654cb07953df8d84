package health

import "sync/atomic"

// flags is a small atomic bitmask.
type flags struct {
	bits atomic.Uint32
}

func (f *flags) set(mask uint32) {
	for {
		old := f.bits.Load()
		if f.bits.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

func (f *flags) unset(mask uint32) {
	for {
		old := f.bits.Load()
		if f.bits.CompareAndSwap(old, old&^mask) {
			return
		}
	}
}

func (f *flags) test(mask uint32) bool {
	return f.bits.Load()&mask != 0
}
