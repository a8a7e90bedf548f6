// FILE: othello/internal/client/session/session.go
package session

import (
	"othello/internal/client/api"
)

// Session holds the interactive client state between commands
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	CurrentUser      string
	AuthToken        string
	Username         string
	LastMoveCount    int
	CurrentGameState *api.GameResponse
	PlayerColor      string
	Verbose          bool
}

// New creates a session talking to baseURL
func New(baseURL string) *Session {
	return &Session{
		APIBaseURL: baseURL,
		Client:     api.New(baseURL),
	}
}

func (s *Session) GetAPIBaseURL() string      { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string)   { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string     { return s.CurrentGame }
func (s *Session) GetCurrentUser() string     { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string)   { s.CurrentUser = id }
func (s *Session) GetAuthToken() string       { return s.AuthToken }
func (s *Session) SetAuthToken(token string)  { s.AuthToken = token }
func (s *Session) GetUsername() string        { return s.Username }
func (s *Session) SetUsername(name string)    { s.Username = name }
func (s *Session) GetLastMoveCount() int      { return s.LastMoveCount }
func (s *Session) SetLastMoveCount(count int) { s.LastMoveCount = count }
func (s *Session) GetClient() *api.Client     { return s.Client }
func (s *Session) IsVerbose() bool            { return s.Verbose }
func (s *Session) GetPlayerColor() string     { return s.PlayerColor }
func (s *Session) SetPlayerColor(c string)    { s.PlayerColor = c }

// SetCurrentGame switches games and forgets the state of the previous one
func (s *Session) SetCurrentGame(gameID string) {
	if gameID != s.CurrentGame {
		s.CurrentGameState = nil
		s.PlayerColor = ""
	}
	s.CurrentGame = gameID
}

// SetGameState caches the latest game response and its move count
func (s *Session) SetGameState(game *api.GameResponse) {
	s.CurrentGameState = game
	if game != nil {
		s.LastMoveCount = len(game.Moves)
	}
}

func (s *Session) GetGameState() *api.GameResponse {
	return s.CurrentGameState
}
