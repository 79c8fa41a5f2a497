package entity

type SortOrder string

const (
	SortDefault SortOrder = ""
	SortGDPDesc SortOrder = "gdp_desc"
	SortGDPAsc  SortOrder = "gdp_asc"
	SortName    SortOrder = "name"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortDefault, SortGDPDesc, SortGDPAsc, SortName:
		return true
	default:
		return false
	}
}

type Source string

const (
	SourceDirectory Source = "directory"
	SourceRates     Source = "rates"
)
