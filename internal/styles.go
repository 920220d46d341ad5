package internal

import "github.com/charmbracelet/lipgloss"

// pre styled colors, all lipgloss
var (
	appTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")).Padding(0, 1)
	subtitleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).MarginTop(1)
	cardStyle          = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(1, 2).MarginTop(1)
	choiceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)
	choiceActiveStyle  = choiceStyle.Copy().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("183")).Bold(true)
	buttonStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("93")).Bold(true).Padding(0, 2).MarginTop(1)
	buttonDisabled     = buttonStyle.Copy().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("238")).Bold(false)
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
	avatarURLStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("109")).Underline(true)
	rosterStyle        = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	rosterTitleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 0, 1, 0)
	rosterNameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("253"))
	onlineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	chatHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	connectedStyle     = statusStyle.Copy().Foreground(lipgloss.Color("42")).Bold(true)
	connectingStyle    = statusStyle.Copy().Foreground(lipgloss.Color("178")).Italic(true)
	errorStyle         = statusStyle.Copy().Foreground(lipgloss.Color("196")).Bold(true)
	messageBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	imageStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Italic(true)
	inputBoxStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	emojiPanelStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("213")).Padding(0, 1)
	emojiKeyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	usernameStyle      = lipgloss.NewStyle().Bold(true)
	activeUserStyle    = usernameStyle.Copy().Foreground(lipgloss.Color("135"))
	systemMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	dividerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render(" ┃ ")
	userColorPalette   = []lipgloss.Color{
		lipgloss.Color("45"),
		lipgloss.Color("81"),
		lipgloss.Color("141"),
		lipgloss.Color("98"),
		lipgloss.Color("63"),
		lipgloss.Color("135"),
		lipgloss.Color("32"),
	}
)

// backgroundPalette maps the background selectors offered by the chat screen
// to terminal colors. Other selectors are accepted but render uncolored.
var backgroundPalette = map[string]lipgloss.Color{
	"white":  lipgloss.Color("255"),
	"blue":   lipgloss.Color("153"),
	"green":  lipgloss.Color("157"),
	"purple": lipgloss.Color("183"),
}

// backgroundChoices is the order used by the F1-F4 shortcuts and the header
// swatches.
var backgroundChoices = []string{"white", "blue", "green", "purple"}

func colorForUser(name string) lipgloss.Color {
	if len(userColorPalette) == 0 {
		return lipgloss.Color("249")
	}
	if name == "" {
		return userColorPalette[0]
	}
	var sum int
	for _, r := range name {
		sum += int(r)
	}
	return userColorPalette[sum%len(userColorPalette)]
}
