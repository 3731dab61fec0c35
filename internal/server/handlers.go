package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"lms-tracker/internal/api"
	"lms-tracker/internal/cache"
	"lms-tracker/internal/constants"
	"lms-tracker/internal/repository"
	"lms-tracker/internal/service"
	"lms-tracker/internal/viewstate"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProfileResponse is the composed player view: aggregate statistics plus
// the recent matches with merged replay summaries.
type ProfileResponse struct {
	Profile       *service.PlayerProfile `json:"profile"`
	RecentMatches []service.RecentMatch  `json:"recentMatches"`
	Excluded      int                    `json:"excluded,omitempty"`
}

type TrackerServer struct {
	stats    *service.StatsAggregator
	history  *service.HistoryService
	detail   *service.MatchDetailService
	searches *repository.SearchRepository
	session  *repository.SessionRepository
	client   *api.Client
	catalog  *cache.CardCatalog
	logger   zerolog.Logger

	profileView viewstate.View[ProfileResponse]
}

func NewTrackerServer(
	stats *service.StatsAggregator,
	history *service.HistoryService,
	detail *service.MatchDetailService,
	searches *repository.SearchRepository,
	session *repository.SessionRepository,
	client *api.Client,
	catalog *cache.CardCatalog,
	logger zerolog.Logger,
) *TrackerServer {
	return &TrackerServer{
		stats:    stats,
		history:  history,
		detail:   detail,
		searches: searches,
		session:  session,
		client:   client,
		catalog:  catalog,
		logger:   logger,
	}
}

func (s *TrackerServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/view/profile/{username}", s.handleProfile)
	mux.HandleFunc("GET /api/view/profile", s.handleCurrentProfile)
	mux.HandleFunc("GET /api/view/history/{username}", s.handleHistory)
	mux.HandleFunc("GET /api/view/match/{id}", s.handleMatchDetail)
	mux.HandleFunc("GET /api/view/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/searches", s.handleListSearches)
	mux.HandleFunc("DELETE /api/searches", s.handleClearSearches)
	mux.HandleFunc("POST /api/session", s.handleLogin)
	mux.HandleFunc("DELETE /api/session", s.handleLogout)
	mux.HandleFunc("GET /api/cards", s.handleCards)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("POST /api/games/rounds", s.handleAddRound)
	mux.HandleFunc("POST /api/games/finish", s.handleFinishGame)
}

// handleProfile loads the composed profile view. The stats feeds are
// all-or-nothing; replay summaries degrade per match inside the history
// service. The result is published to the current-view holder only if the
// username is still the active subject when the load resolves.
func (s *TrackerServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	username := r.PathValue("username")
	token := s.profileView.Begin(username)

	g, gCtx := errgroup.WithContext(ctx)

	var profile *service.PlayerProfile
	var recent []service.RecentMatch
	var excluded int

	g.Go(func() error {
		var err error
		profile, err = s.stats.BuildProfile(gCtx, username)
		return err
	})
	g.Go(func() error {
		var err error
		recent, excluded, err = s.history.GetRecentMatches(gCtx, username)
		return err
	})

	if err := g.Wait(); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load player profile.")
		return
	}

	if err := s.searches.Record(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record recent search")
	}

	response := ProfileResponse{Profile: profile, RecentMatches: recent, Excluded: excluded}
	if !s.profileView.Publish(username, token, response) {
		s.logger.Debug().Str("username", username).Msg("discarding stale profile load")
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *TrackerServer) handleCurrentProfile(w http.ResponseWriter, r *http.Request) {
	subject, view := s.profileView.Current()
	if view == nil {
		writeError(w, http.StatusNotFound, "No profile loaded.")
		return
	}
	s.logger.Debug().Str("username", subject).Msg("serving current profile view")
	writeJSON(w, http.StatusOK, view)
}

func (s *TrackerServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	view, err := s.history.GetHistory(ctx, r.PathValue("username"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load match history.")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *TrackerServer) handleMatchDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	matchID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid match id.")
		return
	}

	view, err := s.detail.GetMatch(ctx, matchID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load game details.")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *TrackerServer) handleRankings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	view, err := s.stats.GetRankings(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load rankings.")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *TrackerServer) handleListSearches(w http.ResponseWriter, r *http.Request) {
	terms, err := s.searches.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recent searches")
		writeError(w, http.StatusInternalServerError, "Failed to load recent searches.")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"searches": terms})
}

func (s *TrackerServer) handleClearSearches(w http.ResponseWriter, r *http.Request) {
	if err := s.searches.Clear(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear recent searches")
		writeError(w, http.StatusInternalServerError, "Failed to clear recent searches.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login request.")
		return
	}

	resp, err := s.client.Login(r.Context(), req.Username, req.Password)
	if err != nil || !resp.Success {
		writeError(w, http.StatusUnauthorized, "Login failed.")
		return
	}

	if err := s.session.Save(r.Context(), req.Username, resp.Token); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		writeError(w, http.StatusInternalServerError, "Failed to persist session.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"username": req.Username, "loggedIn": true})
}

func (s *TrackerServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Clear(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
		writeError(w, http.StatusInternalServerError, "Failed to clear session.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) handleCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.catalog.Cards(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load card catalog.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *TrackerServer) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid card request.")
		return
	}

	card, err := s.client.CreateCard(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to create card.")
		return
	}
	s.catalog.Invalidate()
	writeJSON(w, http.StatusCreated, card)
}

func (s *TrackerServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player1 == "" || req.Player2 == "" {
		writeError(w, http.StatusBadRequest, "Invalid game request.")
		return
	}

	match, err := s.client.CreateGame(r.Context(), req.Player1, req.Player2)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to create game.")
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

func (s *TrackerServer) handleAddRound(w http.ResponseWriter, r *http.Request) {
	var record api.RoundRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid round request.")
		return
	}

	round, err := s.client.AddRound(r.Context(), record)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to record round.")
		return
	}
	writeJSON(w, http.StatusCreated, round)
}

func (s *TrackerServer) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID         int64  `json:"gameId"`
		WinnerUsername string `json:"winnerUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid finish request.")
		return
	}

	match, err := s.client.FinishGame(r.Context(), req.GameID, req.WinnerUsername)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to finish game.")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
