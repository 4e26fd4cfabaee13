package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// DescID is the default ordering for scoped listings: most recent first.
var DescID = []DBOrdering{{Field: "id", Ascending: false}}
