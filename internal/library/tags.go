package library

import (
	"sort"

	"github.com/cratedex/cratedex/internal/pdb"
)

// buildExt indexes the extension container's tag table and tag-track links.
// Categories and their member tags arrive in page order, not display order,
// so both are collected with their positions first and sorted afterwards.
func (s *Snapshot) buildExt(f *pdb.File) {
	type posID struct {
		pos uint32
		id  pdb.TagID
	}
	var categories []posID
	members := make(map[pdb.TagID][]posID)

	f.ScanTableExt(pdb.ExtTableTags, func(off int) {
		row, ok := f.DecodeTagRow(off)
		if !ok {
			return
		}
		s.tags[row.ID] = row
		if row.IsCategory {
			categories = append(categories, posID{row.CategoryPos, row.ID})
		} else {
			members[row.CategoryID] = append(members[row.CategoryID], posID{row.CategoryPos, row.ID})
		}
	})

	sort.SliceStable(categories, func(a, b int) bool {
		return categories[a].pos < categories[b].pos
	})
	for _, c := range categories {
		s.categoryOrder = append(s.categoryOrder, c.id)
	}

	for category, list := range members {
		sort.SliceStable(list, func(a, b int) bool {
			return list[a].pos < list[b].pos
		})
		ids := make([]pdb.TagID, 0, len(list))
		for _, m := range list {
			ids = append(ids, m.id)
		}
		s.categoryTags[category] = ids
	}

	f.ScanTableExt(pdb.ExtTableTagTracks, func(off int) {
		link, ok := f.DecodeTagTrackLink(off)
		if !ok || link.TagID == 0 || link.TrackID == 0 {
			return
		}
		addID(s.tracksByTag, link.TagID, uint32(link.TrackID))
		s.tagsByTrack[link.TrackID] = append(s.tagsByTrack[link.TrackID], link.TagID)
	})
}

// GetTag returns one tag or category row.
func (s *Snapshot) GetTag(id pdb.TagID) (pdb.TagRow, bool) {
	row, ok := s.tags[id]
	return row, ok
}

// TagCount returns the number of tag rows, categories included.
func (s *Snapshot) TagCount() int { return len(s.tags) }

// CategoryOrder returns the category ids in display order.
func (s *Snapshot) CategoryOrder() []pdb.TagID { return s.categoryOrder }

// CategoryTags returns a category's member tag ids in display order.
func (s *Snapshot) CategoryTags(category pdb.TagID) []pdb.TagID {
	return s.categoryTags[category]
}

// TracksWithTag returns the tracks linked to a tag, ascending by id.
func (s *Snapshot) TracksWithTag(id pdb.TagID) []pdb.TrackID {
	return trackIDs(s.tracksByTag[id])
}

// TagsForTrack returns the tags linked to a track, in link scan order.
func (s *Snapshot) TagsForTrack(id pdb.TrackID) []pdb.TagID {
	return s.tagsByTrack[id]
}
