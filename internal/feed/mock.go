package feed

import "encoding/json"

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	CSV  string
	JSON string
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCSV(_ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.CSV, nil
}

func (m *MockFetcher) FetchJSON(_ string, v any) error {
	if m.Err != nil {
		return m.Err
	}
	return json.Unmarshal([]byte(m.JSON), v)
}
