package pdb

// ScanTable walks the page chain of the first directory entry matching kind
// and invokes fn with the absolute byte offset of every present row. A
// missing table or an unreadable page is logged and absorbed; neither is an
// error for the caller.
func (f *File) ScanTable(kind TableKind, fn func(rowOffset int)) {
	for _, t := range f.tables {
		if t.Kind != kind {
			continue
		}
		f.scanChain(t, fn)
		return
	}
	f.log.Warn("table not found", "kind", uint32(kind))
}

// ScanTableExt is ScanTable for extension-container table kinds.
func (f *File) ScanTableExt(kind ExtTableKind, fn func(rowOffset int)) {
	for _, t := range f.tables {
		if t.ExtKind != kind {
			continue
		}
		f.scanChain(t, fn)
		return
	}
	f.log.Warn("table not found", "ext_kind", uint32(kind))
}

func (f *File) scanChain(t Table, fn func(rowOffset int)) {
	current := t.FirstPage
	for {
		page, err := f.ReadPage(current)
		if err != nil {
			// Abort this table's scan only; the rest of the container is
			// still usable.
			f.log.Warn("failed to read page", "page", current, "error", err)
			return
		}

		if page.IsDataPage {
			for _, group := range page.RowGroups {
				for i, ofs := range group.RowOffsets {
					if group.PresentFlags>>i&1 == 0 {
						continue
					}
					fn(group.HeapPos + int(ofs))
				}
			}
		}

		if current == t.LastPage {
			return
		}
		current = page.NextPage
	}
}
