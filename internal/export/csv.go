package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
)

var csvHeader = []string{"Skill", "Status", "Score"}

var statusLabel = map[matching.Band]string{
	matching.BandMatched: "Matched",
	matching.BandPartial: "Partial",
	matching.BandMissing: "Missing",
}

// CSV writes one row per job skill, Matched rows first, then Partial, then
// Missing. Within a band rows keep classification order.
func CSV(w io.Writer, r gap.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, band := range []matching.Band{matching.BandMatched, matching.BandPartial, matching.BandMissing} {
		for _, c := range r.Classifications {
			if c.Band != band {
				continue
			}
			row := []string{
				skill.Display(c.Skill),
				statusLabel[band],
				strconv.FormatFloat(c.Score, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
