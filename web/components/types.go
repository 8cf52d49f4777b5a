package components

// HomeView is what the home page needs to render the current session.
type HomeView struct {
	Text     string
	ECC      string
	Rendered bool
	Version  int
	Size     int
	Percent  int
	HasLogo  bool
	// ImageURL carries a cache-busting query so the browser refetches after
	// every change.
	ImageURL string
}

// LevelOption is one entry of the error correction select.
type LevelOption struct {
	Value string
	Label string
}

// Levels lists the selectable error correction levels in ascending order.
var Levels = []LevelOption{
	{Value: "low", Label: "Low (7%)"},
	{Value: "medium", Label: "Medium (15%)"},
	{Value: "quartile", Label: "Quartile (25%)"},
	{Value: "high", Label: "High (30%)"},
}
