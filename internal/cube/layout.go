package cube

// Cell coordinates are 1-based (row, column), as in the office format workbooks.

// Source grade files: one specimen set per row, from row 2 down to the first
// row whose column B is empty.
const (
	SourceFirstRow    = 2
	SourceKeyCol      = 2
	SourceWeightCol   = 2 // B..G
	SourceStrengthCol = 9 // I..N
	ValuesPerRow      = 6
)

// Template sheets.
const (
	MarkerRow = 12 // B12
	MarkerCol = 2

	WeightRow           = 25 // C25..H25
	StrengthRow         = 27 // C27..H27
	DestinationFirstCol = 3

	CastingDateRow = 17 // C17
	CastingDateCol = 3
	TestDateRow    = 18
	Plus7Col       = 3 // C18
	Plus28Col      = 6 // F18
)
