package game

// Notifier receives state changes so an adapter can render them.
type Notifier interface {
	CellMarked(index int, mark Mark)
	GameOver(outcome Outcome, announcement string)
	BoardReset()
}

type nopNotifier struct{}

func (nopNotifier) CellMarked(int, Mark)     {}
func (nopNotifier) GameOver(Outcome, string) {}
func (nopNotifier) BoardReset()              {}
