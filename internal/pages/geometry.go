package pages

// Geometry shared between the link builder and the renderer. Link regions
// must land exactly on the rectangles the renderer draws, so both sides
// read the same constants; nothing here is duplicated elsewhere.

// Rect is an abstract rectangle in a page's coordinate space (points,
// origin top-left). Consumers scale to physical units if they need to.
type Rect struct {
	X, Y, W, H float64
}

// Page sizes in points: landscape US Letter for the overview, portrait for
// day pages.
const (
	OverviewPageW = 792.0
	OverviewPageH = 612.0
	DayPageW      = 612.0
	DayPageH      = 792.0
)

// Overview page layout: 7 day columns with clickable headers, each column a
// miniature time grid.
const (
	OverviewMarginX    = 46.0
	OverviewColumnW    = 100.0
	OverviewHeaderY    = 120.0
	OverviewHeaderH    = 34.0
	OverviewGridTop    = OverviewHeaderY + OverviewHeaderH
	OverviewGridBottom = 582.0
	OverviewTitleY     = 50.0
	OverviewSubtitleY  = 80.0
	OverviewBannerY    = 92.0
	OverviewBannerH    = 22.0
)

// Day page layout: header, statistics line, navigation buttons, then the
// half-hour slot rows with a time-label gutter on the left.
const (
	DayHeaderY     = 50.0
	DayStatsY      = 80.0
	DayNavY        = 100.0
	DayNavH        = 25.0
	DayGridTop     = 150.0
	DayGridBottom  = 752.0
	DayTimeGutterX = 50.0
	DayTimeGutterW = 50.0
	DayEventAreaX  = DayTimeGutterX + DayTimeGutterW
	DayEventAreaW  = 462.0
)

// Navigation button rectangles on day pages.
var (
	NavOverviewRect = Rect{X: 50, Y: DayNavY, W: 100, H: DayNavH}
	NavPrevRect     = Rect{X: 200, Y: DayNavY, W: 80, H: DayNavH}
	NavNextRect     = Rect{X: 320, Y: DayNavY, W: 80, H: DayNavH}
)

// OverviewColumnX returns the left edge of the day column for the given
// day offset.
func OverviewColumnX(dayOffset int) float64 {
	return OverviewMarginX + float64(dayOffset)*OverviewColumnW
}

// OverviewHeaderRect returns the clickable day header cell on the overview.
func OverviewHeaderRect(dayOffset int) Rect {
	return Rect{
		X: OverviewColumnX(dayOffset),
		Y: OverviewHeaderY,
		W: OverviewColumnW,
		H: OverviewHeaderH,
	}
}

// OverviewSlotRect returns the rectangle of a lane slice within an overview
// column: startSlot/slotCount select the rows, lane/laneCount split the
// column width.
func OverviewSlotRect(dayOffset, startSlot, slotCount, lane, laneCount, gridSlots int) Rect {
	rowH := (OverviewGridBottom - OverviewGridTop) / float64(gridSlots)
	laneW := OverviewColumnW / float64(laneCount)
	return Rect{
		X: OverviewColumnX(dayOffset) + float64(lane)*laneW,
		Y: OverviewGridTop + float64(startSlot)*rowH,
		W: laneW,
		H: float64(slotCount) * rowH,
	}
}

// DaySlotRect returns the rectangle of a lane slice in the day page's event
// area.
func DaySlotRect(startSlot, slotCount, lane, laneCount, gridSlots int) Rect {
	rowH := (DayGridBottom - DayGridTop) / float64(gridSlots)
	laneW := DayEventAreaW / float64(laneCount)
	return Rect{
		X: DayEventAreaX + float64(lane)*laneW,
		Y: DayGridTop + float64(startSlot)*rowH,
		W: laneW,
		H: float64(slotCount) * rowH,
	}
}

// DayRowRect returns the full-width background row for one slot on a day
// page, including the time gutter.
func DayRowRect(slot, gridSlots int) Rect {
	rowH := (DayGridBottom - DayGridTop) / float64(gridSlots)
	return Rect{
		X: DayTimeGutterX,
		Y: DayGridTop + float64(slot)*rowH,
		W: DayTimeGutterW + DayEventAreaW,
		H: rowH,
	}
}
