package models

// Dashboard sections, in default display order.
const (
	SectionOverview    = "overview"
	SectionRoster      = "roster"
	SectionTasks       = "tasks"
	SectionARPipeline  = "ar_pipeline"
	SectionBudgets     = "budgets"
	SectionPerformance = "performance"
)

var SectionCatalog = []string{
	SectionOverview,
	SectionRoster,
	SectionTasks,
	SectionARPipeline,
	SectionBudgets,
	SectionPerformance,
}

type SectionSettings struct {
	Order     []string `json:"order"`
	Hidden    []string `json:"hidden"`
	Collapsed []string `json:"collapsed"`
}

func IsKnownSection(id string) bool {
	for _, s := range SectionCatalog {
		if s == id {
			return true
		}
	}
	return false
}

func DefaultSectionSettings() SectionSettings {
	order := make([]string, len(SectionCatalog))
	copy(order, SectionCatalog)
	return SectionSettings{Order: order, Hidden: []string{}, Collapsed: []string{}}
}

// Normalize drops unknown and duplicate ids and appends catalog sections
// missing from Order, in catalog order.
func (s SectionSettings) Normalize() SectionSettings {
	return SectionSettings{
		Order:     appendMissing(cleanSections(s.Order)),
		Hidden:    cleanSections(s.Hidden),
		Collapsed: cleanSections(s.Collapsed),
	}
}

func cleanSections(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !IsKnownSection(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func appendMissing(order []string) []string {
	present := make(map[string]bool, len(order))
	for _, id := range order {
		present[id] = true
	}
	for _, id := range SectionCatalog {
		if !present[id] {
			order = append(order, id)
		}
	}
	return order
}

func (s SectionSettings) IsHidden(id string) bool {
	return containsSection(s.Hidden, id)
}

func (s SectionSettings) IsCollapsed(id string) bool {
	return containsSection(s.Collapsed, id)
}

func containsSection(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
