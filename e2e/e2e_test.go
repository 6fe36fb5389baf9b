package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/game"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/protocol"
	"github.com/ayusman/mudra/testdata"
)

// Frame widths the mock detector scripts hands for.
const (
	rockWidth     = 320
	scissorsWidth = 330
	paperWidth    = 340
	height        = 240
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type player struct {
	t    *testing.T
	conn *websocket.Conn
}

func newApp(t *testing.T) (*httptest.Server, *detector.MockDetector) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  static_dir: `+t.TempDir()+`
game:
  countdown_interval: 10ms
detector:
  backend: mock
`), 0o644))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	mock := detector.NewMockDetector()
	mock.SetHandsForWidth(rockWidth, detector.RockLandmarks())
	mock.SetHandsForWidth(scissorsWidth, detector.ScissorsLandmarks())
	mock.SetHandsForWidth(paperWidth, detector.PaperLandmarks())

	a, err := app.New(cfg, nil, app.WithDetector(mock))
	require.NoError(t, err)

	ts := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		ts.Close()
		a.Close()
	})
	return ts, mock
}

func connect(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func join(t *testing.T, ts *httptest.Server, username string) *player {
	t.Helper()

	p := &player{t: t, conn: connect(t, ts, "/ws")}
	p.send(protocol.JoinLobby{Username: username})
	p.expect(protocol.EventLobbyJoined, nil)
	return p
}

func (p *player) send(req protocol.Request) {
	p.t.Helper()

	msg, err := protocol.Encode(req)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteMessage(websocket.TextMessage, msg))
}

func (p *player) capture(width int) {
	p.t.Helper()

	img, err := testdata.FrameDataURL(width, height)
	require.NoError(p.t, err)
	p.send(protocol.GestureCapture{Image: img})
}

// expect skips frames until event arrives and decodes its data into v.
func (p *player) expect(event string, v any) {
	p.t.Helper()

	p.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f frame
		require.NoError(p.t, p.conn.ReadJSON(&f), "waiting for %s", event)
		if f.Event != event {
			continue
		}
		if v != nil {
			require.NoError(p.t, json.Unmarshal(f.Data, v))
		}
		return
	}
}

// countdown collects countdown values up to capture_gesture.
func (p *player) countdown() []any {
	p.t.Helper()

	var ticks []any
	p.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f frame
		require.NoError(p.t, p.conn.ReadJSON(&f))
		switch f.Event {
		case protocol.EventCountdown:
			var d struct {
				Count any `json:"count"`
			}
			require.NoError(p.t, json.Unmarshal(f.Data, &d))
			ticks = append(ticks, d.Count)
		case protocol.EventCaptureGesture:
			return ticks
		}
	}
}

func TestE2E_TwoPlayerGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, _ := newApp(t)

	alice := join(t, ts, "alice")
	bob := join(t, ts, "bob")

	alice.send(protocol.CreateRoom{})
	var created protocol.RoomCreatedData
	alice.expect(protocol.EventRoomCreated, &created)

	t.Run("room is listed over HTTP", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body struct {
			AvailableRooms []game.Summary `json:"available_rooms"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.AvailableRooms, 1)
		assert.Equal(t, game.Summary{ID: created.RoomID, Players: 1, MaxPlayers: 2}, body.AvailableRooms[0])
	})

	bob.send(protocol.JoinRoomRequest{RoomID: created.RoomID})
	bob.expect(protocol.EventRoomJoined, nil)

	var full protocol.RoomFullData
	alice.expect(protocol.EventRoomFull, &full)
	assert.Equal(t, []string{"alice", "bob"}, full.Players)

	t.Run("third player is turned away", func(t *testing.T) {
		carol := join(t, ts, "carol")
		carol.send(protocol.JoinRoomRequest{RoomID: created.RoomID})

		var failed protocol.JoinFailedData
		carol.expect(protocol.EventJoinFailed, &failed)
		assert.Equal(t, protocol.ReasonRoomFull, failed.Reason)
	})

	alice.send(protocol.PlayerReady{})
	bob.send(protocol.PlayerReady{})

	want := []any{float64(3), float64(2), float64(1), protocol.CountdownGo}
	assert.Equal(t, want, alice.countdown())
	assert.Equal(t, want, bob.countdown())

	alice.capture(rockWidth)
	bob.capture(scissorsWidth)

	var results protocol.GameResultsData
	bob.expect(protocol.EventGameResults, &results)

	require.NotNil(t, results.Winner)
	assert.Equal(t, "alice", results.WinnerName)
	assert.Equal(t, "alice wins!", results.Result)
	require.Len(t, results.Players, 2)
	for id, pr := range results.Players {
		switch pr.Username {
		case "alice":
			assert.Equal(t, *results.Winner, id)
			assert.Equal(t, gesture.Rock, pr.Gesture)
			assert.NotEmpty(t, pr.Capture)
		case "bob":
			assert.Equal(t, gesture.Scissors, pr.Gesture)
		default:
			t.Errorf("unexpected player %q", pr.Username)
		}
	}
	assert.Equal(t, 1, results.Scores[*results.Winner])

	t.Run("play again resets to waiting", func(t *testing.T) {
		alice.send(protocol.PlayAgain{})

		var reset protocol.RoundResetData
		bob.expect(protocol.EventRoundReset, &reset)
		assert.False(t, reset.IsAIGame)
		assert.Equal(t, game.StatusWaiting, reset.Status)
		assert.False(t, reset.AutoStart)
	})

	t.Run("leaving notifies the other player", func(t *testing.T) {
		bob.conn.Close()

		var left protocol.PlayerLeftData
		alice.expect(protocol.EventPlayerLeft, &left)
		assert.Equal(t, "bob", left.Username)
	})
}

func TestE2E_AIGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, _ := newApp(t)
	dana := join(t, ts, "dana")

	dana.send(protocol.CreateAIGame{})
	var created protocol.AIGameCreatedData
	dana.expect(protocol.EventAIGameCreated, &created)
	assert.True(t, created.IsAIGame)
	assert.Equal(t, "dana", created.PlayerName)
	assert.Equal(t, "🤖 AI", created.AIName)

	for round := 1; round <= 2; round++ {
		if round == 1 {
			dana.send(protocol.PlayerReady{})
		}
		assert.Len(t, dana.countdown(), 4)

		dana.capture(paperWidth)

		var results protocol.GameResultsData
		dana.expect(protocol.EventGameResults, &results)

		ai, ok := results.Players[game.AIPlayerID]
		require.True(t, ok, "round %d: results should include the AI", round)
		assert.Equal(t, "🤖 AI", ai.Username)
		assert.Contains(t, gesture.Moves, ai.Gesture)
		assert.Empty(t, ai.Capture)

		var human protocol.PlayerResultsData
		for id, pr := range results.Players {
			if id != game.AIPlayerID {
				human = pr
			}
		}
		assert.Equal(t, gesture.Paper, human.Gesture)

		switch ai.Gesture {
		case gesture.Paper:
			assert.Equal(t, "Draw!", results.Result)
			assert.Nil(t, results.Winner)
		case gesture.Rock:
			assert.Equal(t, "dana wins!", results.Result)
		case gesture.Scissors:
			assert.Equal(t, "🤖 AI wins!", results.Result)
		}

		if round == 1 {
			dana.send(protocol.PlayAgain{})

			var reset protocol.RoundResetData
			dana.expect(protocol.EventRoundReset, &reset)
			assert.True(t, reset.IsAIGame)
			assert.True(t, reset.AutoStart)
		}
	}

	t.Run("AI rooms are not listed", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms/" + created.RoomID)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		list, err := http.Get(ts.URL + "/api/rooms")
		require.NoError(t, err)
		defer list.Body.Close()

		var body struct {
			AvailableRooms []game.Summary `json:"available_rooms"`
		}
		require.NoError(t, json.NewDecoder(list.Body).Decode(&body))
		assert.Empty(t, body.AvailableRooms)
	})
}

func TestE2E_Practice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, mock := newApp(t)
	conn := connect(t, ts, "/api/practice")

	img, err := testdata.FrameDataURL(paperWidth, height)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(map[string]string{"image": img}))

	var reply struct {
		Hands     []gesture.HandInfo `json:"hands"`
		Timestamp int64              `json:"timestamp"`
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.ReadJSON(&reply))

	require.Len(t, reply.Hands, 1)
	assert.Equal(t, gesture.Paper, reply.Hands[0].RPS)
	assert.Equal(t, 5, reply.Hands[0].FingerCount)
	assert.Equal(t, "Five (open hand)", reply.Hands[0].GestureName)
	assert.NotZero(t, reply.Timestamp)
	assert.Equal(t, 1, mock.Calls())
}
