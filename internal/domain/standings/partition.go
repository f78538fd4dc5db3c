package standings

import (
	"sort"
	"strings"
)

// Partition is the derived conference view of one snapshot.
type Partition struct {
	East []Row `json:"east"`
	West []Row `json:"west"`
	// Other holds rows whose conference matches neither bucket while a split exists.
	Other []Row `json:"other,omitempty"`
	// Combined is the single sorted fallback table, set only when Split is false.
	Combined []Row `json:"combined,omitempty"`
	Split    bool  `json:"split"`
}

// Split partitions rows by a case-insensitive "east"/"west" substring of the conference
// label. When neither bucket receives a row, it falls back to one unsplit table.
func Split(rows []Row) Partition {
	var p Partition
	for _, row := range rows {
		conf := strings.ToLower(row.Conference)
		switch {
		case strings.Contains(conf, "east"):
			p.East = append(p.East, row)
		case strings.Contains(conf, "west"):
			p.West = append(p.West, row)
		default:
			p.Other = append(p.Other, row)
		}
	}

	if len(p.East) == 0 && len(p.West) == 0 {
		p.Combined = Sorted(rows)
		p.Other = nil
		return p
	}

	p.Split = true
	Sort(p.East)
	Sort(p.West)
	Sort(p.Other)
	return p
}

// Sorted returns a sorted copy of rows.
func Sorted(rows []Row) []Row {
	out := append([]Row(nil), rows...)
	Sort(out)
	return out
}

// Sort orders rows by conference, then playoff rank ascending with missing ranks last,
// then win percentage descending.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ca, cb := strings.ToLower(a.Conference), strings.ToLower(b.Conference); ca != cb {
			return ca < cb
		}
		if ra, rb := a.PlayoffRank, b.PlayoffRank; ra != nil || rb != nil {
			switch {
			case ra == nil:
				return false
			case rb == nil:
				return true
			case *ra != *rb:
				return *ra < *rb
			}
		}
		return winPct(a) > winPct(b)
	})
}

func winPct(r Row) float64 {
	if r.WinPct == nil {
		return -1
	}
	return *r.WinPct
}
