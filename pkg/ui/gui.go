package ui

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/network"
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// GUI is the desktop client: a lobby screen with ready/gamemode controls
// and a round screen driving the board renderer off the prediction layer.
type GUI struct {
	app     fyne.App
	window  fyne.Window
	client  *game.Client
	network *network.Manager

	currentScreen string
	board         *BoardRenderer
	playersList   *widget.List
	scoreLabel    *widget.Label
	modeLabel     *widget.Label

	predictStop chan struct{}
}

func NewGUI(client *game.Client, netManager *network.Manager) *GUI {
	myApp := app.New()

	window := myApp.NewWindow("Snake Arena")
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	gui := &GUI{
		app:           myApp,
		window:        window,
		client:        client,
		network:       netManager,
		currentScreen: "lobby",
	}

	client.AddStateListener(func() {
		fyne.Do(func() {
			gui.onStateChanged()
		})
	})

	client.SetSummaryHandler(func(summary protocol.RoundSummary) {
		fyne.Do(func() {
			gui.showSummaryDialog(summary)
		})
	})

	client.SetDisconnectHandler(func(err error) {
		fyne.Do(func() {
			dialog.ShowInformation("Disconnected",
				"Connection to the server was lost.", gui.window)
		})
	})

	window.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'w', 'W':
			gui.steer(protocol.Up)
		case 'a', 'A':
			gui.steer(protocol.Left)
		case 's', 'S':
			gui.steer(protocol.Down)
		case 'd', 'D':
			gui.steer(protocol.Right)
		}
	})

	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyUp:
			gui.steer(protocol.Up)
		case fyne.KeyLeft:
			gui.steer(protocol.Left)
		case fyne.KeyDown:
			gui.steer(protocol.Down)
		case fyne.KeyRight:
			gui.steer(protocol.Right)
		}
	})

	gui.showLobbyScreen()
	return gui
}

func (g *GUI) Run() error {
	g.window.ShowAndRun()
	return nil
}

// steer runs the shared acceptance rule locally and only bothers the
// server when the turn was accepted.
func (g *GUI) steer(dir protocol.Direction) {
	if g.currentScreen != "game" {
		return
	}
	if g.client.RequestDirection(dir) {
		g.network.SendDirection(dir)
	}
}

func (g *GUI) onStateChanged() {
	phase := g.client.Phase()

	switch {
	case phase == protocol.IN_ROUND && g.currentScreen != "game":
		g.showGameScreen()
	case phase == protocol.LOBBY && g.currentScreen != "lobby":
		g.showLobbyScreen()
	default:
		g.refreshCurrent()
	}
}

func (g *GUI) refreshCurrent() {
	if g.board != nil {
		g.board.Refresh()
	}
	if g.playersList != nil {
		g.playersList.Refresh()
	}
	if g.scoreLabel != nil {
		g.scoreLabel.SetText(g.scoreText())
	}
	if g.modeLabel != nil {
		g.modeLabel.SetText(g.modeText())
	}
}

// sortedPlayers gives a stable listing order; map iteration would make the
// lobby list jump around on every refresh.
func (g *GUI) sortedPlayers() []game.PlayerView {
	view := g.client.Snapshot()
	sort.Slice(view.Players, func(i, j int) bool {
		return view.Players[i].ID < view.Players[j].ID
	})
	return view.Players
}

func (g *GUI) modeText() string {
	view := g.client.Snapshot()
	if view.Phase == protocol.IN_ROUND {
		return fmt.Sprintf("Mode: %s", view.Gamemode)
	}
	return fmt.Sprintf("Next round: %s", view.PendingMode)
}

func (g *GUI) scoreText() string {
	view := g.client.Snapshot()
	if view.Gamemode == protocol.COOPERATIVE {
		return fmt.Sprintf("Team score: %d", view.TeamScore)
	}
	for _, p := range view.Players {
		if p.ID == view.OwnID {
			return fmt.Sprintf("Score: %d", p.Score)
		}
	}
	return "Score: 0"
}

func (g *GUI) showLobbyScreen() {
	g.currentScreen = "lobby"
	g.stopPrediction()
	g.board = nil
	g.scoreLabel = nil

	title := widget.NewLabel("SNAKE ARENA")
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle.Bold = true

	g.modeLabel = widget.NewLabel(g.modeText())
	g.modeLabel.Alignment = fyne.TextAlignCenter

	g.playersList = widget.NewList(
		func() int {
			return len(g.sortedPlayers())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			players := g.sortedPlayers()
			if id >= len(players) {
				return
			}
			p := players[id]
			state := "waiting"
			if p.Ready {
				state = "ready"
			}
			obj.(*widget.Label).SetText(fmt.Sprintf(" %s — %s", p.Name, state))
		},
	)

	readyBtn := widget.NewButton("Ready / Not ready", func() {
		g.network.SendToggleReady()
	})
	readyBtn.Importance = widget.HighImportance

	modeBtn := widget.NewButton("Switch gamemode", func() {
		g.network.SendChangeGamemode()
	})

	quitBtn := widget.NewButton("Quit", func() {
		g.network.Close()
		g.app.Quit()
	})

	hint := widget.NewLabel("The round starts once every player is ready.")
	hint.Alignment = fyne.TextAlignCenter

	content := container.NewBorder(
		container.NewVBox(title, g.modeLabel),
		container.NewVBox(hint, container.NewGridWithColumns(3, readyBtn, modeBtn, quitBtn)),
		nil, nil,
		g.playersList,
	)

	g.window.SetContent(container.NewPadded(content))
}

func (g *GUI) showGameScreen() {
	g.currentScreen = "game"

	g.board = NewBoardRenderer(g.client, 20)
	boardView := container.NewScroll(g.board)

	g.scoreLabel = widget.NewLabel(g.scoreText())
	g.scoreLabel.TextStyle.Bold = true

	g.modeLabel = widget.NewLabel(g.modeText())

	g.playersList = widget.NewList(
		func() int {
			return len(g.sortedPlayers())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			players := g.sortedPlayers()
			if id >= len(players) {
				return
			}
			p := players[id]
			state := ""
			if !p.Alive {
				state = " (dead)"
			}
			obj.(*widget.Label).SetText(fmt.Sprintf(" %s: %d%s", p.Name, p.Score, state))
		},
	)

	instructions := widget.NewLabel(" Steer with the arrow keys or WASD")
	instructions.Alignment = fyne.TextAlignCenter

	left := container.NewBorder(
		container.NewVBox(g.scoreLabel, g.modeLabel),
		nil, nil, nil,
		g.playersList,
	)
	right := container.NewBorder(nil, instructions, nil, nil, boardView)

	split := container.NewHSplit(left, right)
	split.SetOffset(0.25)
	g.window.SetContent(split)

	g.startPrediction()
}

// startPrediction steps the local own snake at the server's tick interval
// so movement renders without waiting for the next snapshot.
func (g *GUI) startPrediction() {
	g.stopPrediction()
	stop := make(chan struct{})
	g.predictStop = stop

	go func() {
		ticker := time.NewTicker(g.client.Config().TickInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.client.PredictStep()
			case <-stop:
				return
			}
		}
	}()
}

func (g *GUI) stopPrediction() {
	if g.predictStop != nil {
		close(g.predictStop)
		g.predictStop = nil
	}
}

func (g *GUI) showSummaryDialog(summary protocol.RoundSummary) {
	lines := make([]string, 0, len(summary.Players)+1)
	ids := make([]int32, 0, len(summary.Players))
	for id := range summary.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return summary.Players[ids[i]].Score > summary.Players[ids[j]].Score
	})
	for _, id := range ids {
		p := summary.Players[id]
		lines = append(lines, fmt.Sprintf("%s: %d", p.Name, p.Score))
	}
	if summary.TeamScore != nil {
		lines = append(lines, fmt.Sprintf("Team score: %d", *summary.TeamScore))
	}

	text := "Round over"
	for _, line := range lines {
		text += "\n" + line
	}
	dialog.ShowInformation("Round summary", text, g.window)
}
