package archive

// DefaultProgressEvery is the processed-file interval between progress
// notifications when Options.ProgressEvery is unset.
const DefaultProgressEvery = 50

// meter counts archived files and throttles progress notifications: one per
// interval boundary, plus one at the final file. With a zero total it stays
// silent, so empty runs cannot divide by zero.
type meter struct {
	total     int
	processed int
	every     int
	notify    func(percent int)
}

func newMeter(total, every int, notify func(int)) *meter {
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return &meter{total: total, every: every, notify: notify}
}

// fileDone records one archived file.
func (m *meter) fileDone() {
	m.processed++
	if m.total <= 0 || m.notify == nil {
		return
	}
	if m.processed%m.every == 0 || m.processed == m.total {
		m.notify(m.processed * 100 / m.total)
	}
}
