package tui

const (
	tableVerticalPadding = 4
	splitPanelPadding    = 2
	borderPadding        = 14

	methodColumnWidth   = 16
	minNetworkWidth     = 14
	maxNetworkWidth     = 40
	costColumnWidth     = 12
	waitColumnWidth     = 10
	requestsColumnWidth = 9
	bytesColumnWidth    = 10

	// histogram bar width when the panel is too narrow to size it
	minBarWidth = 10
)
