package fetcher

// Progress is a download progress snapshot. Total is the server-reported
// length in bytes, or 100 for phased operations.
type Progress struct {
	Loaded     int64 `json:"loaded"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

type ProgressSink interface {
	Report(Progress)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(Progress)

func (f ProgressFunc) Report(p Progress) {
	f(p)
}

// ChannelSink forwards progress to a channel. Updates are dropped while the
// channel is full so a slow reader never stalls a download.
type ChannelSink chan<- Progress

func (c ChannelSink) Report(p Progress) {
	select {
	case c <- p:
	default:
	}
}

func report(sink ProgressSink, p Progress) {
	if sink != nil {
		sink.Report(p)
	}
}

func phase(sink ProgressSink, pct int) {
	report(sink, Progress{Loaded: int64(pct), Total: 100, Percentage: pct})
}
