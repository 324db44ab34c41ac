package features

import "encoding/json"

// Statistic is one entry of statistics.json.
type Statistic struct {
	ImagePath string `json:"ImagePath,omitempty"`
	Title     string `json:"Title,omitempty"`
	Value     string `json:"Value,omitempty"`
	Tooltip   string `json:"Tooltip,omitempty"`
}

// Statistics are laid out two per subcontainer so they line up with the
// site tiles, each of which is as wide as two statistic tiles.
type Statistics struct {
	Subcontainers [][]Statistic `json:"subcontainers"`
	Hidden        bool          `json:"hidden"`
}

// Empty reports whether there is nothing to show.
func (s *Statistics) Empty() bool {
	return len(s.Subcontainers) == 0
}

func (s *Statistics) Count() int {
	n := 0
	for _, sc := range s.Subcontainers {
		n += len(sc)
	}
	return n
}

func BuildStatistics(items []Statistic) *Statistics {
	st := &Statistics{}
	for i := 0; i < len(items); i += 2 {
		end := min(i+2, len(items))
		st.Subcontainers = append(st.Subcontainers, items[i:end:end])
	}
	return st
}

func ParseStatistics(data []byte) (*Statistics, error) {
	var items []Statistic
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ConfigurationError{Feature: "statistics", Index: -1, Msg: err.Error()}
	}
	return BuildStatistics(items), nil
}
