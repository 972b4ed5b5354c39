package feed

// Fetcher defines the interface for fetching remote feed resources.
type Fetcher interface {
	FetchCSV(url string) (string, error)
	FetchJSON(url string, v any) error
	Name() string
}
