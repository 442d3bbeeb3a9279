package export

import (
	"context"
	"fmt"
	"html"
	"strings"

	"weekpack/internal/model"
	"weekpack/internal/render"
	"weekpack/internal/snapshot"
)

// bannerImage rasterizes a one-line week summary strip for the overview
// page. The strip is captured at 2x the placed size so it stays crisp when
// scaled down into the PDF.
func bannerImage(ctx context.Context, doc render.Week) ([]byte, error) {
	fragment := `<div style="width:100%;height:100%;display:flex;align-items:center;` +
		`background:#eef2f7;border:1px solid #c8d1dc;border-radius:4px;` +
		`font-family:Helvetica,Arial,sans-serif;font-size:18px;color:#334;` +
		`padding:0 12px;box-sizing:border-box;">` + bannerSummary(doc) + `</div>`

	return snapshot.RenderFragmentToImage(ctx, fragment, snapshot.Options{
		Width:  1400,
		Height: 44,
	})
}

// bannerSummary builds the banner's text. Day offsets are walked in order,
// so a tie on appointment count always names the earliest day and repeated
// runs over the same week produce identical text.
func bannerSummary(doc render.Week) string {
	var total int
	busiest, busiestCount := -1, 0
	for off := 0; off < model.DaysPerWeek; off++ {
		day := doc.Stats[off]
		total += day.Appointments
		if day.Appointments > busiestCount {
			busiest, busiestCount = off, day.Appointments
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d appointments this week", total)
	if busiest >= 0 {
		day := doc.WeekStart.AddDate(0, 0, busiest)
		fmt.Fprintf(&b, " &middot; busiest: %s (%d)", html.EscapeString(day.Format("Monday")), busiestCount)
	}
	return b.String()
}
