// Package app is the interactive participant client: a tview terminal UI
// wired to a topic.Participant and a websocket connection to a relay.
package app

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"stringphone/internal/identity"
	"stringphone/internal/log"
	"stringphone/internal/store"
	"stringphone/internal/wire"
	"stringphone/topic"
)

// App drives one participant's terminal session against one topic.
type App struct {
	ui        *tview.Application
	chatbox   *tview.TextView
	input     *tview.InputField
	conn      *websocket.Conn
	store     *store.Store
	name      string
	topicName string

	participant *topic.Participant
}

func New(st *store.Store) *App {
	return &App{
		ui:    tview.NewApplication(),
		store: st,
	}
}

// Run loads or creates the participant's persisted identity, connects to
// relayAddr on the given topic, and blocks rendering the UI until the
// user quits.
func (a *App) Run(ctx context.Context, name, topicName, relayAddr string) error {
	a.name = name
	a.topicName = topicName

	p, err := a.loadOrCreateParticipant(ctx, name)
	if err != nil {
		return fmt.Errorf("load participant: %w", err)
	}
	a.participant = p

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/topics/%s", relayAddr, topicName), nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	a.conn = conn

	go a.listen()
	a.renderUI()
	return a.persist(ctx)
}

func (a *App) loadOrCreateParticipant(ctx context.Context, name string) (*topic.Participant, error) {
	rec, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		p, err := topic.New(nil, nil)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	p, err := topic.New(rec.Seed, rec.TopicKey)
	if err != nil {
		return nil, err
	}
	for _, pub := range rec.Trusted {
		if err := p.AddParticipant(pub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (a *App) persist(ctx context.Context) error {
	rec := &store.Record{Name: a.name, Seed: a.participant.Seed(), TopicKey: a.participant.TopicKey()}
	rec.Trusted = make(map[string][]byte)
	for id, pub := range a.participant.Participants() {
		rec.Trusted[store.TrustedKeyName(id)] = pub
	}
	return a.store.Save(ctx, rec)
}

func (a *App) renderUI() {
	a.chatbox = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	a.chatbox.SetBorder(true).SetTitle(fmt.Sprintf(" Topic: %s ", a.topicName))

	a.input = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	a.input.SetBorder(true).SetTitle(" /intro to introduce yourself, anything else sends a message ")

	a.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := a.input.GetText()
		a.input.SetText("")
		if text == "" {
			return
		}
		go a.handleInput(text)
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.chatbox, 0, 1, false).
		AddItem(a.input, 3, 0, true)

	if err := a.ui.SetRoot(layout, true).SetFocus(a.input).Run(); err != nil {
		log.Fatal("terminal UI failed", zap.Error(err))
	}
}

func (a *App) handleInput(text string) {
	if text == "/intro" {
		frame, err := a.participant.ConstructIntro()
		if err != nil {
			a.printLine("[red]error constructing introduction: %v", err)
			return
		}
		if err := a.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			a.printLine("[red]error sending introduction: %v", err)
		}
		return
	}

	if !a.participant.HasTopicKey() {
		a.printLine("[red]no topic key yet, run /intro and wait for a reply")
		return
	}
	frame, err := a.participant.Encode([]byte(text))
	if err != nil {
		a.printLine("[red]encode failed: %v", err)
		return
	}
	if err := a.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		a.printLine("[red]send failed: %v", err)
		return
	}
	a.printLine("[yellow]you:[-] %s", text)
}

func (a *App) listen() {
	for {
		_, frame, err := a.conn.ReadMessage()
		if err != nil {
			log.Debug("relay connection closed", zap.Error(err))
			return
		}
		a.handleFrame(frame)
	}
}

func (a *App) handleFrame(frame []byte) {
	tag, err := wire.Tag(frame)
	if err != nil {
		return
	}

	switch tag {
	case wire.TagIntroduction:
		a.handleIntroduction(frame)
	case wire.TagReply:
		a.handleReply(frame)
	default:
		a.handleMessage(frame)
	}
}

// handleIntroduction learns the introducer's signing key and, if this
// participant already has a topic key, answers with a Reply. Trusting on
// sight is a simplification suited to a demo client: a production
// deployment would gate trust on an out-of-band confirmation instead.
func (a *App) handleIntroduction(frame []byte) {
	intro, err := wire.DecodeIntroduction(frame)
	if err != nil {
		return
	}
	if err := a.participant.AddParticipant(intro.SigningPublicKey[:]); err != nil {
		a.printLine("[red]trust add failed: %v", err)
		return
	}

	id, err := identity.FromSigningPublicKey(intro.SigningPublicKey[:])
	if err == nil {
		a.printLine("[blue]learned participant %s[-]", id.String())
	}

	if !a.participant.HasTopicKey() {
		return
	}
	reply, err := a.participant.ConstructReply(frame)
	if err != nil {
		a.printLine("[red]reply construction failed: %v", err)
		return
	}
	if err := a.conn.WriteMessage(websocket.BinaryMessage, reply); err != nil {
		a.printLine("[red]reply send failed: %v", err)
	}
}

func (a *App) handleReply(frame []byte) {
	ok, err := a.participant.ParseReply(frame)
	if err != nil {
		a.printLine("[red]reply rejected: %v", err)
		return
	}
	if ok {
		a.printLine("[green]acquired topic key[-]")
	}
}

func (a *App) handleMessage(frame []byte) {
	plaintext, err := a.participant.Decode(frame, false, true)
	if err != nil {
		a.printLine("[red]decode failed: %v", err)
		return
	}
	if plaintext == nil {
		return
	}
	a.printLine("[green]peer:[-] %s", string(plaintext))
}

func (a *App) printLine(format string, args ...any) {
	a.ui.QueueUpdateDraw(func() {
		fmt.Fprintf(a.chatbox, format+"\n", args...)
		a.chatbox.ScrollToEnd()
	})
}
