package quadball

type TournamentGamesRequest struct {
	Tournament string `json:"tournament"`
}

type TournamentGamesResponse struct {
	PublicGameIDs []string `json:"public_game_ids"`
}
