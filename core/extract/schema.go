package extract

import "github.com/andybalholm/cascadia"

// A layout change on the site is a single edit here. Bump the version
// suffix when a schema changes shape so old and new pages can coexist in tests.

// StudySchema describes the course listing of a study plan.
type StudySchema struct {
	Version string
	Rows    cascadia.Selector
	Header  cascadia.Selector
	Link    cascadia.Selector
}

// CourseSchema describes a course page: its task links and navigation list.
type CourseSchema struct {
	Version        string
	Tasks          cascadia.Selector
	Navigation     cascadia.Selector
	MaterialsLabel string
}

// TableSchema describes a materials table read as a flat run of cells.
// Skip leading cells are header and padding; the rest split into rows of
// Width cells with the named columns at fixed offsets.
type TableSchema struct {
	Version string
	Cells   cascadia.Selector
	Skip    int
	Width   int
	LinkCol int
	SizeCol int
	// KindCol holds the folder marker; -1 when the table has no folders.
	KindCol int
}

// TaskSchema describes a task page and its file listing.
type TaskSchema struct {
	Version      string
	Anchors      cascadia.Selector
	FilesMarker  string
	Heading      cascadia.Selector
	FileAnchors  cascadia.Selector
	YearSplitter string
}

const materialsCells = ".content > form > .table-holder > table.stbl > tbody > tr > td"

var (
	StudyListingV1 = StudySchema{
		Version: "study/v1",
		Rows:    cascadia.MustCompile(".content > .table-holder tr[align='center'][valign='top']"),
		Header:  cascadia.MustCompile("th"),
		Link:    cascadia.MustCompile("a.bar"),
	}

	CourseListingV1 = CourseSchema{
		Version:        "course/v1",
		Tasks:          cascadia.MustCompile(".content > form > .table-holder a.bar"),
		Navigation:     cascadia.MustCompile(".content > ul.nomargin > li > a"),
		MaterialsLabel: "Soubory k předmětu",
	}

	MaterialsListingV1 = TableSchema{
		Version: "materials/v1",
		Cells:   cascadia.MustCompile(materialsCells),
		Skip:    9,
		Width:   6,
		LinkCol: 3,
		SizeCol: 4,
		KindCol: -1,
	}

	MaterialsSubpageV1 = TableSchema{
		Version: "materials-subpage/v1",
		Cells:   cascadia.MustCompile(materialsCells),
		Skip:    11,
		Width:   7,
		LinkCol: 3,
		SizeCol: 5,
		KindCol: 5,
	}

	TaskPageV1 = TaskSchema{
		Version:      "task/v1",
		Anchors:      cascadia.MustCompile(".content > p > a"),
		FilesMarker:  "course-sf.php",
		Heading:      cascadia.MustCompile("h1"),
		FileAnchors:  cascadia.MustCompile(".content > form > table tr[valign='middle'] > td > a"),
		YearSplitter: "/",
	}
)
