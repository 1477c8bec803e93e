package clock

import "time"

// anchor is the process-wide start-of-trace instant. Both clock
// implementations report nanoseconds elapsed since this anchor rather than
// since the Unix epoch, matching the original crate's convention of
// timestamping relative to an Instant captured at startup.
var anchor = time.Now()
