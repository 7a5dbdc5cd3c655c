package mark

const (
	startSuffix = "_start"
	endSuffix   = "_end"
)

// StartName returns the mark name used for the start of base.
func StartName(base string) string { return base + startSuffix }

// EndName returns the mark name used for the end of base.
func EndName(base string) string { return base + endSuffix }

// Measure computes the duration between the start and end marks of baseName.
//
// When only the end mark exists the end mark's own timestamp is returned, so the value
// is time since the clock origin rather than a delta. When no end mark exists the
// result is nil.
func Measure(reg *Registry, baseName string) *float64 {
	end, ok := reg.GetMark(EndName(baseName))
	if !ok {
		return nil
	}
	value := end.StartTime
	if start, ok := reg.GetMark(StartName(baseName)); ok {
		value = end.StartTime - start.StartTime
	}
	return &value
}
