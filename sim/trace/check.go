package trace

import "fmt"

// ExclusionViolation describes the first record at which a table was held by
// more than one writer, or by a writer and a reader at the same time.
type ExclusionViolation struct {
	Record  Record
	Readers int
	Writers int
}

func (v *ExclusionViolation) Error() string {
	return fmt.Sprintf("exclusion violated on %s at record %d (%q): readers=%d writers=%d",
		v.Record.Table, v.Record.Seq, v.Record.Message(), v.Readers, v.Writers)
}

// CheckExclusion replays records in physical order and returns the first
// reader/writer exclusion violation, or nil. Records are emitted while the
// table lock is held, so the physical order agrees with the lock order.
func CheckExclusion(records []Record) error {
	type occupancy struct{ readers, writers int }
	tables := make(map[string]*occupancy)
	for _, r := range records {
		occ, ok := tables[r.Table]
		if !ok {
			occ = &occupancy{}
			tables[r.Table] = occ
		}
		switch r.Kind {
		case KindReadStart:
			occ.readers++
		case KindReadEnd:
			occ.readers--
		case KindWriteStart:
			occ.writers++
		case KindWriteEnd:
			occ.writers--
		}
		if occ.readers < 0 || occ.writers < 0 {
			return fmt.Errorf("unbalanced %s record for thread %d on %s at record %d", r.Kind, r.Thread, r.Table, r.Seq)
		}
		if occ.writers > 1 || (occ.writers == 1 && occ.readers > 0) {
			return &ExclusionViolation{Record: r, Readers: occ.readers, Writers: occ.writers}
		}
	}
	return nil
}
