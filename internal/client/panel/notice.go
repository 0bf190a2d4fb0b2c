package panel

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelNeutral Level = "neutral"
	LevelError   Level = "error"
)

// Notice is the one line a panel shows after an action.
type Notice struct {
	Level Level
	Text  string
}

func (n Notice) Empty() bool {
	return n.Text == ""
}
