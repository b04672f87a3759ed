package scoring

// SectorUnknown is the bucket for tickers the lookup cannot place.
const SectorUnknown = "Other"

// SectorLookup resolves a ticker to a coarse sector name. Injected rather
// than global so tests and deployments can swap the table.
type SectorLookup interface {
	Sector(ticker string) string
}

// StaticSectors is a fixed ticker-to-sector table.
type StaticSectors map[string]string

// Sector returns the mapped sector, or SectorUnknown for unmapped tickers.
func (s StaticSectors) Sector(ticker string) string {
	if sector, ok := s[ticker]; ok && sector != "" {
		return sector
	}
	return SectorUnknown
}
